package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// SaveBatch writes all records of a batch in one transaction.
func (p *PostgresClient) SaveBatch(ctx context.Context, b Batch) error {
	if b.Empty() {
		return nil
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, d := range b.Descriptors {
		batch.Queue(`
			INSERT INTO descriptor_versions (sequence_id, instance_id, mdib_version, handle, parent_handle,
			                                 descriptor_version, type_name, modification, payload)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		`, d.SequenceID, int64(d.InstanceID), int64(d.MdibVersion), d.Handle, d.ParentHandle,
			int64(d.DescriptorVersion), d.TypeName, d.Modification, d.Payload)
	}
	for _, s := range b.States {
		batch.Queue(`
			INSERT INTO state_versions (sequence_id, instance_id, mdib_version, handle, descriptor_handle,
			                            state_version, type_name, payload)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, s.SequenceID, int64(s.InstanceID), int64(s.MdibVersion), s.Handle, s.DescriptorHandle,
			int64(s.StateVersion), s.TypeName, s.Payload)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert archive records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Descriptors returns archived descriptor versions ordered by MDIB version.
func (p *PostgresClient) Descriptors(ctx context.Context, q Query) ([]DescriptorRecord, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT sequence_id, instance_id, mdib_version, handle, parent_handle,
		       descriptor_version, type_name, modification, payload, recorded_at
		FROM descriptor_versions
		WHERE sequence_id = $1
		  AND (cardinality($2::text[]) = 0 OR handle = ANY($2))
		  AND mdib_version BETWEEN $3 AND $4
		ORDER BY mdib_version, id
	`, q.SequenceID, q.handles(), int64(q.From), int64(q.upper()))
	if err != nil {
		return nil, fmt.Errorf("failed to query descriptor archive: %w", err)
	}
	defer rows.Close()

	var out []DescriptorRecord
	for rows.Next() {
		var (
			r                    DescriptorRecord
			instance, mdibV, dsV int64
		)
		if err := rows.Scan(&r.SequenceID, &instance, &mdibV, &r.Handle, &r.ParentHandle,
			&dsV, &r.TypeName, &r.Modification, &r.Payload, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan descriptor record: %w", err)
		}
		r.InstanceID, r.MdibVersion, r.DescriptorVersion = uint64(instance), uint64(mdibV), uint64(dsV)
		out = append(out, r)
	}
	return out, rows.Err()
}

// States returns archived state versions ordered by MDIB version. A handle
// matches either the state handle or its descriptor handle.
func (p *PostgresClient) States(ctx context.Context, q Query) ([]StateRecord, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT sequence_id, instance_id, mdib_version, handle, descriptor_handle,
		       state_version, type_name, payload, recorded_at
		FROM state_versions
		WHERE sequence_id = $1
		  AND (cardinality($2::text[]) = 0 OR handle = ANY($2) OR descriptor_handle = ANY($2))
		  AND mdib_version BETWEEN $3 AND $4
		ORDER BY mdib_version, id
	`, q.SequenceID, q.handles(), int64(q.From), int64(q.upper()))
	if err != nil {
		return nil, fmt.Errorf("failed to query state archive: %w", err)
	}
	defer rows.Close()

	var out []StateRecord
	for rows.Next() {
		var (
			r                   StateRecord
			instance, mdibV, sV int64
		)
		if err := rows.Scan(&r.SequenceID, &instance, &mdibV, &r.Handle, &r.DescriptorHandle,
			&sV, &r.TypeName, &r.Payload, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan state record: %w", err)
		}
		r.InstanceID, r.MdibVersion, r.StateVersion = uint64(instance), uint64(mdibV), uint64(sV)
		out = append(out, r)
	}
	return out, rows.Err()
}

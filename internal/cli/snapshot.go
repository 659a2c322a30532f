package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pb "github.com/KevinKickass/OpenMDIB/api/proto"
	"github.com/KevinKickass/OpenMDIB/internal/mdib"
	"github.com/KevinKickass/OpenMDIB/internal/xmltree"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
)

// SnapshotSummary describes an MDIB snapshot file.
type SnapshotSummary struct {
	SequenceID         string `json:"sequence_id"`
	InstanceID         uint64 `json:"instance_id"`
	MdibVersion        uint64 `json:"mdib_version"`
	DescriptionVersion uint64 `json:"description_version"`
	StateVersion       uint64 `json:"state_version"`
	Descriptors        int    `json:"descriptors"`
	States             int    `json:"states"`
	Rejected           int    `json:"rejected_states,omitempty"`
}

type snapshotOptions struct {
	output     string
	binary     bool
	sequenceID string
}

// NewSnapshotCommand converts MDIB snapshots between the XML and the
// binary protobuf encoding.
func NewSnapshotCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render, convert and summarize MDIB snapshots",
		Long: `Snapshot files ending in .xml hold an XML Mdib document; any other
file holds a binary MdibMsg.`,
	}
	cmd.AddCommand(newSnapshotRenderCommand(rootOpts))
	cmd.AddCommand(newSnapshotConvertCommand(rootOpts, "encode", "Convert an XML snapshot to a binary MdibMsg", true))
	cmd.AddCommand(newSnapshotConvertCommand(rootOpts, "decode", "Convert a binary MdibMsg to an XML snapshot", false))
	cmd.AddCommand(newSnapshotShowCommand(rootOpts))
	return cmd
}

func newSnapshotRenderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &snapshotOptions{}
	cmd := &cobra.Command{
		Use:   "render <profile-file>",
		Short: "Compose a profile into an MDIB and write its snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := rootOpts.Logger()
			composition, _, err := composeFile(args[0], logger)
			if err != nil {
				return err
			}
			var mdibOpts []mdib.Option
			if opts.sequenceID != "" {
				mdibOpts = append(mdibOpts, mdib.WithSequenceID(opts.sequenceID))
			}
			m := mdib.New(logger, mdibOpts...)
			if _, err := composition.Apply(m); err != nil {
				return WrapExitError(ExitFailure, "failed to apply profile", err)
			}
			return writeSnapshot(cmd, m, opts.output, opts.binary)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.binary, "binary", false, "write a binary MdibMsg instead of XML")
	cmd.Flags().StringVar(&opts.sequenceID, "sequence-id", "", "sequence id of the rendered MDIB (default random)")
	return cmd
}

func newSnapshotConvertCommand(rootOpts *RootOptions, use, short string, binary bool) *cobra.Command {
	opts := &snapshotOptions{}
	cmd := &cobra.Command{
		Use:   use + " <snapshot-file>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, report, err := readSnapshotFile(args[0], rootOpts.Logger())
			if err != nil {
				return err
			}
			for _, e := range report.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %v\n", e)
			}
			return writeSnapshot(cmd, m, opts.output, binary)
		},
	}
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func newSnapshotShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <snapshot-file>",
		Short: "Print the versions and sizes of a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			m, report, err := readSnapshotFile(args[0], rootOpts.Logger())
			if err != nil {
				return err
			}
			snap, err := m.Snapshot()
			if err != nil {
				return err
			}
			s := SnapshotSummary{
				SequenceID:         snap.Version.SequenceID,
				InstanceID:         snap.Version.InstanceID,
				MdibVersion:        snap.Version.MdibVersion,
				DescriptionVersion: snap.DescriptionVersion,
				StateVersion:       snap.StateVersion,
				Descriptors:        len(snap.Descriptors),
				States:             len(snap.States),
				Rejected:           len(report.Errors),
			}
			if formatter.JSON() {
				return formatter.WriteJSON(s)
			}
			formatter.Printf("sequence %s instance %d\n", s.SequenceID, s.InstanceID)
			formatter.Printf("mdib version %d (description %d, state %d)\n", s.MdibVersion, s.DescriptionVersion, s.StateVersion)
			formatter.Printf("%d descriptors, %d states", s.Descriptors, s.States)
			if s.Rejected > 0 {
				formatter.Printf(", %d rejected", s.Rejected)
			}
			formatter.Printf("\n")
			return nil
		},
	}
}

func isXML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".xml")
}

// readSnapshotFile loads an XML or binary snapshot into a new MDIB.
func readSnapshotFile(path string, logger *zap.Logger) (*mdib.Mdib, mdib.BatchReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mdib.BatchReport{}, WrapExitError(ExitCommandError, "failed to read snapshot", err)
	}

	m := mdib.New(logger)
	var report mdib.BatchReport
	if isXML(path) {
		snap, rejected, err := xmltree.ReadSnapshot(bytes.NewReader(data))
		if err != nil {
			return nil, report, WrapExitError(ExitFailure, "invalid XML snapshot", err)
		}
		report, err = m.Load(snap)
		report.Errors = append(rejected, report.Errors...)
		if err != nil {
			return nil, report, WrapExitError(ExitFailure, "failed to load snapshot", err)
		}
		return m, report, nil
	}

	msg, err := m.Mapper().Catalog().NewMessage(pb.MdibMsg)
	if err != nil {
		return nil, report, err
	}
	if err := proto.Unmarshal(data, msg); err != nil {
		return nil, report, WrapExitError(ExitFailure, "invalid binary snapshot", err)
	}
	report, err = m.ReadSnapshot(msg)
	if err != nil {
		return nil, report, WrapExitError(ExitFailure, "failed to load snapshot", err)
	}
	return m, report, nil
}

func writeSnapshot(cmd *cobra.Command, m *mdib.Mdib, output string, binary bool) error {
	var buf bytes.Buffer
	if binary {
		msg, err := m.WriteSnapshot()
		if err != nil {
			return err
		}
		data, err := proto.Marshal(msg)
		if err != nil {
			return err
		}
		buf.Write(data)
	} else {
		snap, err := m.Snapshot()
		if err != nil {
			return err
		}
		if err := xmltree.WriteSnapshot(&buf, snap); err != nil {
			return err
		}
	}

	if output != "" {
		if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
			return WrapExitError(ExitCommandError, "failed to write snapshot", err)
		}
		return nil
	}
	_, err := cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

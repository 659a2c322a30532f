package interfaces

import (
	"context"
	"net/http"

	"github.com/KevinKickass/OpenMDIB/internal/archive"
	"github.com/KevinKickass/OpenMDIB/internal/config"
	"github.com/KevinKickass/OpenMDIB/internal/mdib"
	"github.com/KevinKickass/OpenMDIB/internal/profile"
)

// SystemStatus represents the current system state
type SystemStatus struct {
	State             string `json:"state"`
	Profile           string `json:"profile,omitempty"`
	SequenceID        string `json:"sequence_id"`
	MdibVersion       uint64 `json:"mdib_version"`
	DescriptorCount   int    `json:"descriptor_count"`
	ReportSubscribers int    `json:"report_subscribers"`
	ArchiveEnabled    bool   `json:"archive_enabled"`
	ArchiveDropped    uint64 `json:"archive_dropped,omitempty"`
	Simulating        bool   `json:"simulating"`
}

type LifecycleManager interface {
	Config() *config.Config
	Mdib() *mdib.Mdib
	// Profile is nil when the MDIB was not composed from a profile.
	Profile() *profile.Profile
	// Archive is nil when archiving is disabled.
	Archive() archive.Store
	GetCurrentStatus() SystemStatus
	// MetricsHandler serves Prometheus metrics.
	MetricsHandler() http.Handler
	Shutdown(ctx context.Context) error
}

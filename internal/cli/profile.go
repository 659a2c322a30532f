package cli

import (
	"fmt"
	"strings"

	"github.com/KevinKickass/OpenMDIB/internal/profile"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ProfileResult is the outcome of validating one profile file.
type ProfileResult struct {
	Path        string `json:"path"`
	ID          string `json:"id,omitempty"`
	Valid       bool   `json:"valid"`
	Descriptors int    `json:"descriptors,omitempty"`
	Simulated   int    `json:"simulated,omitempty"`
	Error       string `json:"error,omitempty"`
}

// TreeNode is one descriptor of an inspected profile.
type TreeNode struct {
	Handle string `json:"handle"`
	Parent string `json:"parent,omitempty"`
	Type   string `json:"type"`
	Depth  int    `json:"depth"`
}

func NewProfileCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Validate and inspect device profiles",
	}
	cmd.AddCommand(newProfileValidateCommand(rootOpts))
	cmd.AddCommand(newProfileInspectCommand(rootOpts))
	return cmd
}

func newProfileValidateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <profile-file>...",
		Short: "Check profiles against the schema and compose them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			loader, err := profile.NewProfileLoader(nil)
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to create profile loader", err)
			}

			results := make([]ProfileResult, 0, len(args))
			failed := 0
			for _, path := range args {
				r := validateProfile(loader, path, rootOpts.Logger())
				if !r.Valid {
					failed++
				}
				results = append(results, r)
			}

			if formatter.JSON() {
				if err := formatter.WriteJSON(results); err != nil {
					return err
				}
			} else {
				for _, r := range results {
					if r.Valid {
						formatter.Printf("ok    %s (%s, %d descriptors, %d simulated)\n", r.Path, r.ID, r.Descriptors, r.Simulated)
					} else {
						formatter.Printf("FAIL  %s: %s\n", r.Path, r.Error)
					}
				}
			}
			if failed > 0 {
				return WrapExitError(ExitFailure, fmt.Sprintf("%d of %d profiles invalid", failed, len(args)), nil)
			}
			return nil
		},
	}
}

func validateProfile(loader *profile.ProfileLoader, path string, logger *zap.Logger) ProfileResult {
	r := ProfileResult{Path: path}
	p, err := loader.Load(path)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.ID = p.Info.ID
	composition, err := profile.NewComposer(logger).Compose(p)
	if err != nil {
		r.Error = err.Error()
		return r
	}
	r.Valid = true
	r.Descriptors = len(composition.Descriptors)
	r.Simulated = len(composition.Simulated)
	return r
}

func newProfileInspectCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <profile-file>",
		Short: "Print the descriptor tree a profile composes into",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			composition, p, err := composeFile(args[0], rootOpts.Logger())
			if err != nil {
				return err
			}

			depth := make(map[string]int, len(composition.Descriptors))
			nodes := make([]TreeNode, 0, len(composition.Descriptors))
			for _, d := range composition.Descriptors {
				b := d.DescriptorBase()
				level := 0
				if b.ParentHandle != "" {
					level = depth[b.ParentHandle] + 1
				}
				depth[b.Handle] = level
				nodes = append(nodes, TreeNode{Handle: b.Handle, Parent: b.ParentHandle, Type: d.TypeName(), Depth: level})
			}

			if formatter.JSON() {
				return formatter.WriteJSON(map[string]any{
					"device_profile": p.Info,
					"descriptors":    nodes,
				})
			}
			formatter.Printf("%s %s %s (version %s)\n", p.Info.ID, p.Info.Vendor, p.Info.Model, p.Info.Version)
			for _, n := range nodes {
				formatter.Printf("%s%s  %s\n", strings.Repeat("  ", n.Depth), n.Handle, n.Type)
			}
			return nil
		},
	}
}

// composeFile loads and composes one profile file.
func composeFile(path string, logger *zap.Logger) (*profile.Composition, *profile.Profile, error) {
	loader, err := profile.NewProfileLoader(nil)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to create profile loader", err)
	}
	p, err := loader.Load(path)
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to load profile", err)
	}
	composition, err := profile.NewComposer(logger).Compose(p)
	if err != nil {
		return nil, nil, WrapExitError(ExitFailure, "failed to compose profile", err)
	}
	return composition, p, nil
}

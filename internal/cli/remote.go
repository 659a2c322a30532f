package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/KevinKickass/OpenMDIB/internal/consumer"
	"github.com/KevinKickass/OpenMDIB/internal/mdib"
	"github.com/KevinKickass/OpenMDIB/internal/model"
	"github.com/KevinKickass/OpenMDIB/internal/prop"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

type remoteOptions struct {
	addr    string
	timeout time.Duration
}

func (o *remoteOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.addr, "addr", "localhost:50051", "gRPC address of the MDIB provider")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 10*time.Second, "timeout of unary requests")
}

// dial returns a consumer for a fresh mirror MDIB.
func (o *remoteOptions) dial(logger *zap.Logger) (*consumer.Consumer, func(), error) {
	conn, err := grpc.NewClient(o.addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, nil, WrapExitError(ExitCommandError, "failed to create client", err)
	}
	c := consumer.New(conn, mdib.New(logger), 0, logger)
	return c, func() { conn.Close() }, nil
}

// StateLine is the printed form of one remote state.
type StateLine struct {
	Handle       string `json:"handle"`
	Type         string `json:"type"`
	StateVersion uint64 `json:"state_version"`
	Value        string `json:"value,omitempty"`
}

func stateLine(s model.State) StateLine {
	return StateLine{
		Handle:       model.StateHandle(s),
		Type:         s.TypeName(),
		StateVersion: s.StateBase().StateVersion,
		Value:        stateValue(s),
	}
}

// stateValue is the metric value text of metric states.
func stateValue(s model.State) string {
	switch ms := s.(type) {
	case *model.NumericMetricState:
		if ms.MetricValue != nil && ms.MetricValue.Value != nil {
			return prop.DecimalText(ms.MetricValue.Value)
		}
	case *model.StringMetricState:
		if ms.MetricValue != nil && ms.MetricValue.Value != nil {
			return *ms.MetricValue.Value
		}
	case *model.EnumStringMetricState:
		if ms.MetricValue != nil && ms.MetricValue.Value != nil {
			return *ms.MetricValue.Value
		}
	}
	return ""
}

func NewFetchCommand(rootOpts *RootOptions) *cobra.Command {
	remote := &remoteOptions{}
	var (
		states  []string
		output  string
		binary  bool
		isState bool
	)
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the MDIB or selected states from a provider",
		Long: `Without --states the whole MDIB is fetched and written as a snapshot.
With --states only the named states (or all with --states '') are printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := rootOpts.Logger()
			c, closeConn, err := remote.dial(logger)
			if err != nil {
				return err
			}
			defer closeConn()

			ctx, cancel := context.WithTimeout(cmd.Context(), remote.timeout)
			defer cancel()

			if isState {
				return fetchStates(ctx, cmd, rootOpts, c, states)
			}

			msg, err := c.GetMdib(ctx)
			if err != nil {
				return WrapExitError(ExitFailure, "GetMdib failed", err)
			}
			report, err := c.Mirror().ReadSnapshot(msg)
			if err != nil {
				return WrapExitError(ExitFailure, "invalid MDIB from provider", err)
			}
			for _, e := range report.Errors {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped: %v\n", e)
			}
			return writeSnapshot(cmd, c.Mirror(), output, binary)
		},
	}
	remote.bind(cmd)
	cmd.Flags().StringSliceVar(&states, "states", nil, "fetch these state handles instead of the MDIB")
	cmd.Flags().StringVarP(&output, "output", "o", "", "snapshot output file (default stdout)")
	cmd.Flags().BoolVar(&binary, "binary", false, "write a binary MdibMsg instead of XML")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		isState = cmd.Flags().Changed("states")
	}
	return cmd
}

func fetchStates(ctx context.Context, cmd *cobra.Command, rootOpts *RootOptions, c *consumer.Consumer, handles []string) error {
	formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
	g, states, err := c.GetMdState(ctx, handles...)
	if err != nil {
		return WrapExitError(ExitFailure, "GetMdState failed", err)
	}
	lines := make([]StateLine, 0, len(states))
	for _, s := range states {
		lines = append(lines, stateLine(s))
	}
	if formatter.JSON() {
		return formatter.WriteJSON(map[string]any{
			"mdib_version": g.MdibVersion,
			"sequence_id":  g.SequenceID,
			"states":       lines,
		})
	}
	formatter.Printf("mdib version %d of %s\n", g.MdibVersion, g.SequenceID)
	for _, l := range lines {
		formatter.Printf("%-24s %-32s v%-6d %s\n", l.Handle, l.Type, l.StateVersion, l.Value)
	}
	return nil
}

// ChangeLine is the printed form of one mirrored change. MirrorVersion
// counts the changes of the local mirror, not the provider's MdibVersion.
type ChangeLine struct {
	MirrorVersion uint64      `json:"mirror_version"`
	ReportType    string      `json:"report_type"`
	Handles       []string    `json:"handles"`
	States        []StateLine `json:"states,omitempty"`
}

func NewFollowCommand(rootOpts *RootOptions) *cobra.Command {
	remote := &remoteOptions{}
	var (
		actions []string
		count   int
	)
	cmd := &cobra.Command{
		Use:   "follow",
		Short: "Mirror a provider's MDIB and print every change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reportTypes := make([]model.ReportType, 0, len(actions))
			for _, name := range actions {
				t, err := model.ParseReportType(strings.TrimSpace(name))
				if err != nil {
					return WrapExitError(ExitCommandError, "invalid --actions", err)
				}
				reportTypes = append(reportTypes, t)
			}

			logger := rootOpts.Logger()
			c, closeConn, err := remote.dial(logger)
			if err != nil {
				return err
			}
			defer closeConn()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			// Observers must not block; lines queue here and are printed below.
			changes := make(chan ChangeLine, 256)
			unsubscribe := c.Mirror().Subscribe(func(cs mdib.ChangeSet) {
				line := ChangeLine{MirrorVersion: cs.Version.MdibVersion, ReportType: cs.Type.String(), Handles: cs.Handles}
				for _, s := range cs.States {
					line.States = append(line.States, stateLine(s))
				}
				select {
				case changes <- line:
				default:
					logger.Warn("Dropping change line, output too slow")
				}
			})
			defer unsubscribe()

			session, err := c.Connect(ctx, reportTypes...)
			if err != nil {
				return WrapExitError(ExitFailure, "failed to connect", err)
			}
			defer session.Close()

			formatter := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			g := c.Remote()
			if !formatter.JSON() {
				formatter.Printf("mirroring %s at mdib version %d (%d descriptors)\n", g.SequenceID, g.MdibVersion, c.Mirror().Len())
			}

			printed := 0
			for count <= 0 || printed < count {
				select {
				case line := <-changes:
					if formatter.JSON() {
						if err := formatter.WriteJSON(line); err != nil {
							return err
						}
					} else {
						formatter.Printf("%-8d %-32s %s\n", line.MirrorVersion, line.ReportType, strings.Join(line.Handles, ","))
						for _, s := range line.States {
							if s.Value != "" {
								formatter.Printf("         %s = %s\n", s.Handle, s.Value)
							}
						}
					}
					printed++
				case <-session.Done():
					if err := session.Err(); err != nil {
						return WrapExitError(ExitFailure, "report stream ended", err)
					}
					return nil
				case <-ctx.Done():
					return nil
				}
			}
			return nil
		},
	}
	remote.bind(cmd)
	cmd.Flags().StringSliceVar(&actions, "actions", nil, "report types to subscribe to (default all)")
	cmd.Flags().IntVar(&count, "count", 0, "stop after this many changes (0 follows until interrupted)")
	return cmd
}

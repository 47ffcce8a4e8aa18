package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bnema/wallhub/internal/bridge"
	"github.com/bnema/wallhub/internal/config"
	"github.com/bnema/wallhub/internal/logger"
)

var sendCmd = &cobra.Command{
	Use:   "send <method> [args...]",
	Short: "Send a launcher event to a running wallhub",
	Long:  "Send a launcher event through the bridge socket of a running 'wallhub serve'.\n\nMethods:\n" + methodsHelp(),
	Example: `  wallhub send DesiredSizeChanged 1080 2340
  wallhub send OffsetsChanged 0.5 0 0.25 0 -540 0
  wallhub send CustomEventReceived weather rain`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	rootCmd.AddCommand(sendCmd)
}

func runSend(cmd *cobra.Command, args []string) error {
	method, err := bridge.LookupMethod(args[0])
	if err != nil {
		return err
	}

	values, err := bridge.ParseArgs(method.Name, args[1:])
	if err != nil {
		return err
	}

	cfg := config.Get()
	client := bridge.NewClient(cfg.Bridge.SocketPath, cfg.Bridge.Timeout)
	if err := client.Send(method.Name, values...); err != nil {
		return err
	}

	logger.Debug("Event sent", "method", method.Name, "args", values)
	return nil
}

func methodsHelp() string {
	var b strings.Builder
	for _, m := range bridge.Methods() {
		fmt.Fprintf(&b, "  %s\n", m.Usage())
	}
	return b.String()
}

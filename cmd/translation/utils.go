package translation

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

const defaultTimeout = 2 * time.Minute

// joinIDs renders location ids as a comma separated list
func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ", ")
}

// addSelectorFlags registers --contentId and --locationId; exactly one must be set
func addSelectorFlags(cmd *cobra.Command) {
	cmd.Flags().Int64("contentId", 0, "Which content to modify. Example --contentId=42")
	cmd.Flags().Int64("locationId", 0, "Which content location to modify. Example --locationId=42")
	cmd.MarkFlagsMutuallyExclusive("contentId", "locationId")
	cmd.MarkFlagsOneRequired("contentId", "locationId")
}

// commandContext bounds the command by its --timeout flag
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// resolveServices uses the given creator, or the real factory when it is nil
func resolveServices(ctx context.Context, services ServiceCreator) (*Services, func(), error) {
	if services == nil {
		services = NewServiceFactory(nil)
	}
	svc, cleanup, err := services.CreateService(ctx)
	if err != nil {
		return nil, nil, err
	}
	if cleanup == nil {
		cleanup = func() {}
	}
	return svc, cleanup, nil
}

// writeOutput prints formatted output, ending it with a newline
func writeOutput(w io.Writer, output string) {
	if output == "" {
		return
	}
	fmt.Fprint(w, output)
	if !strings.HasSuffix(output, "\n") {
		fmt.Fprintln(w)
	}
}

package translation

import (
	"fmt"
	"io"
	"strings"

	"github.com/Taichi-iskw/rmtrans/internal/console"
	"github.com/Taichi-iskw/rmtrans/internal/service/translation"
)

// FormatPlan describes the changes Execute would make for plan
func FormatPlan(w io.Writer, plan *translation.Plan) {
	fmt.Fprintln(w, "=== DRY RUN MODE ===")
	fmt.Fprintf(w, "Translation to remove: %s\n", console.Info("%s", plan.Request.RemoveLanguage))
	fmt.Fprintf(w, "New main language: %s\n", plan.NewMainLanguage)
	fmt.Fprintf(w, "Remaining languages: %s\n", strings.Join(plan.RemainingLanguages, ", "))
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Planned changes:")
	fmt.Fprintf(w, "  1. Create content of type %s with %d translation(s) under location %d\n",
		plan.ContentTypeName, len(plan.RemainingLanguages), plan.ParentLocationID)
	fmt.Fprintln(w, "  2. Publish the new content")
	fmt.Fprintf(w, "  3. Swap location %d with the new content's location\n", swapLocationID(plan))
	fmt.Fprintf(w, "  4. Delete content %d\n", plan.ContentID)
	fmt.Fprintf(w, "  5. Purge cache for locations %d, %d and the new location\n",
		plan.ParentLocationID, plan.MainLocationID)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Note: This is a dry run. No content was modified.")
}

// swapLocationID is the location Execute hands over to the new content
func swapLocationID(plan *translation.Plan) int64 {
	if plan.Location != nil {
		return plan.Location.ID
	}
	return plan.MainLocationID
}

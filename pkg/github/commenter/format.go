package commenter

import (
	"fmt"
	"strings"
	"time"

	"github.com/shipwatch/shipwatch/pkg/apis/deployment"
)

// FormatBody renders the status comment for a deployment. It is pure and
// deterministic for identical inputs; the publisher relies on that to make
// replayed updates idempotent.
func FormatBody(d deployment.Deployment, logURL string, production bool) string {
	var sb strings.Builder

	sb.WriteString(Marker)
	if production {
		sb.WriteString(" (production)")
	} else {
		sb.WriteString(" (preview)")
	}
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("%s Deployment `%s` is `%s`.\n", deployment.Symbol(d.Status), shortSHA(d.Commit), d.Status))

	if d.Status == deployment.StatusFinished && d.URL != "" {
		sb.WriteString(fmt.Sprintf("\n**URL:** %s\n", d.URL))
	}

	if d.FinishedAt != nil {
		sb.WriteString(fmt.Sprintf("\nFinished at %s.\n", d.FinishedAt.UTC().Format(time.RFC3339)))
	}

	sb.WriteString(fmt.Sprintf("\n[Deployment logs](%s)\n", logURL))

	if d.Status == deployment.StatusFailed {
		sb.WriteString("\n---\n❗ The deployment failed. Check the logs above, then restart it from the platform dashboard or push a new commit to retry.\n")
	}

	return sb.String()
}

func shortSHA(sha string) string {
	if len(sha) > 7 {
		return sha[:7]
	}
	return sha
}

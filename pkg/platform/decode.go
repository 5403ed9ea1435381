package platform

import (
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/shipwatch/shipwatch/pkg/apis/deployment"
)

// The platform API has shipped more than one field naming for the same
// payload (deployment_uuid vs uuid, commit vs git_commit_sha). All known
// shapes are normalized here so they never leak past this package.

func decodeDeployments(body []byte) []deployment.Deployment {
	deployments := []deployment.Deployment{}
	gjson.GetBytes(body, "deployments").ForEach(func(_, item gjson.Result) bool {
		deployments = append(deployments, decodeDeployment(item))
		return true
	})
	return deployments
}

func decodeDeployment(item gjson.Result) deployment.Deployment {
	d := deployment.Deployment{
		ID:     firstString(item, "deployment_uuid", "uuid"),
		Commit: firstString(item, "commit", "git_commit_sha"),
		Status: item.Get("status").String(),
		URL:    normalizeURL(item.Get("fqdn").String()),
	}

	if t, ok := parseTime(item, "created_at"); ok {
		d.CreatedAt = t
	}
	if t, ok := parseTime(item, "finished_at"); ok {
		d.FinishedAt = &t
	}

	return d
}

func firstString(item gjson.Result, keys ...string) string {
	for _, key := range keys {
		if value := item.Get(key); value.Exists() && value.String() != "" {
			return value.String()
		}
	}
	return ""
}

func parseTime(item gjson.Result, key string) (time.Time, bool) {
	value := item.Get(key)
	if !value.Exists() || value.String() == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, value.String())
	if err != nil {
		log.WithField(key, value.String()).WithError(err).Warn("unparseable timestamp in platform response")
		return time.Time{}, false
	}
	return t, true
}

// the platform reports a bare fqdn once a deployment is reachable
func normalizeURL(fqdn string) string {
	if fqdn == "" || strings.Contains(fqdn, "://") {
		return fqdn
	}
	return "https://" + fqdn
}

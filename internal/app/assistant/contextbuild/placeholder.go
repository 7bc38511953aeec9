// internal/app/assistant/contextbuild/placeholder.go
package contextbuild

import (
	"github.com/vhht/vhhtbot/internal/app/system/metrics"
	"go.uber.org/zap"
)

// Placeholders rendered in place of missing or unreadable data.
const (
	NotAvailable    = "chưa có thông tin"
	NoPhases        = "chưa có giai đoạn"
	NoTasks         = "chưa có nhiệm vụ"
	NoDepartments   = "chưa có phòng ban"
	UnknownPhase    = "không rõ giai đoạn"
	UnknownDate     = "không rõ ngày"
	UnknownCampaign = "không rõ chiến dịch"
)

// Placeholder records that field was degraded and returns text. Missing
// optional data logs at debug; broken references and failed reads pass
// their error and log at warn. Every call is counted.
func Placeholder(log *zap.Logger, field, ref, text string, err error) string {
	metrics.Placeholders.WithLabelValues(field).Inc()
	if err != nil {
		log.Warn("context field degraded",
			zap.String("field", field),
			zap.String("ref", ref),
			zap.Error(err))
	} else {
		log.Debug("context field missing",
			zap.String("field", field),
			zap.String("ref", ref))
	}
	return text
}

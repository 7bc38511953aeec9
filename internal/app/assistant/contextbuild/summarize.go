// internal/app/assistant/contextbuild/summarize.go
package contextbuild

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vhht/vhhtbot/internal/app/system/timezones"
	"github.com/vhht/vhhtbot/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DefaultLimit caps the number of records in one summary.
const DefaultLimit = 5

// RecordFinder runs a capped, filtered read against a collection.
type RecordFinder interface {
	Find(ctx context.Context, collection string, filter bson.M, limit int64) ([]bson.Raw, error)
}

// Summary is the rendered result of a structured query.
type Summary struct {
	Text    string
	Records []bson.Raw
}

// Empty reports whether the query matched nothing.
func (s Summary) Empty() bool {
	return len(s.Records) == 0
}

type formatter func(b *Builder, raw bson.Raw) string

var formatters = map[string]formatter{
	models.CollectionCampaigns:         formatCampaign,
	models.CollectionDonationCampaigns: formatDonationCampaign,
	models.CollectionDonorProfiles:     formatDonor,
	models.CollectionUsers:             formatUser,
}

// Summarize reads up to limit records of collection matching filter and
// renders one line per record. A limit of 0 uses DefaultLimit. Read
// failures are returned; formatting never fails.
func (b *Builder) Summarize(ctx context.Context, collection string, filter bson.M, limit int64) (Summary, error) {
	format, ok := formatters[collection]
	if !ok {
		return Summary{}, fmt.Errorf("no summary format for collection %q", collection)
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	docs, err := b.records.Find(ctx, collection, filter, limit)
	if err != nil {
		return Summary{}, fmt.Errorf("summarize %s: %w", collection, err)
	}

	lines := make([]string, 0, len(docs))
	for _, raw := range docs {
		lines = append(lines, format(b, raw))
	}
	return Summary{Text: strings.Join(lines, "\n"), Records: docs}, nil
}

func formatCampaign(b *Builder, raw bson.Raw) string {
	var c models.Campaign
	if err := bson.Unmarshal(raw, &c); err != nil {
		return "- " + Placeholder(b.log, "campaign", "", NotAvailable, err)
	}
	ref := c.ID.Hex()
	return fmt.Sprintf("- %s (%s đến %s)",
		b.orNA(c.Name, "campaign.name", ref),
		b.date(c.StartDate, "campaign.startDate", ref),
		b.date(c.EndDate, "campaign.endDate", ref))
}

func formatDonationCampaign(b *Builder, raw bson.Raw) string {
	var d models.DonationCampaign
	if err := bson.Unmarshal(raw, &d); err != nil {
		return "- " + Placeholder(b.log, "donationCampaign", "", NotAvailable, err)
	}
	return fmt.Sprintf("- %s: đã quyên góp %s/%s VNĐ (%s)",
		b.orNA(d.Title, "donationCampaign.title", d.ID.Hex()),
		money(d.CurrentAmount),
		money(d.GoalAmount),
		donationStatusLabel(d.Status))
}

func formatDonor(b *Builder, raw bson.Raw) string {
	var p models.DonorProfile
	if err := bson.Unmarshal(raw, &p); err != nil {
		return "- " + Placeholder(b.log, "donorProfile", "", NotAvailable, err)
	}
	who := "Nhà hảo tâm"
	if p.AnonymousDefault {
		who = "Nhà hảo tâm ẩn danh"
	}
	return fmt.Sprintf("- %s: tổng đóng góp %s VNĐ cho %d chiến dịch",
		who, money(p.TotalDonated), len(p.DonatedCampaigns))
}

func formatUser(b *Builder, raw bson.Raw) string {
	var u models.User
	if err := bson.Unmarshal(raw, &u); err != nil {
		return "- " + Placeholder(b.log, "user", "", NotAvailable, err)
	}
	ref := u.ID.Hex()
	return fmt.Sprintf("- %s: kỹ năng %s; lĩnh vực quan tâm %s",
		b.orNA(u.FullName, "user.fullName", ref),
		b.orNA(strings.Join(u.Skills, ", "), "user.skills", ref),
		b.orNA(strings.Join(u.PreferredFields, ", "), "user.preferredFields", ref))
}

func (b *Builder) orNA(s, field, ref string) string {
	if strings.TrimSpace(s) == "" {
		return Placeholder(b.log, field, ref, NotAvailable, nil)
	}
	return s
}

func (b *Builder) date(t *time.Time, field, ref string) string {
	if t == nil || t.IsZero() {
		return Placeholder(b.log, field, ref, UnknownDate, nil)
	}
	return timezones.Display(*t)
}

// money formats an amount with Vietnamese digit grouping.
func money(v float64) string {
	return message.NewPrinter(language.Vietnamese).Sprintf("%d", int64(v))
}

func donationStatusLabel(s string) string {
	switch s {
	case "active":
		return "đang nhận ủng hộ"
	case "completed":
		return "đã kết thúc"
	case "draft":
		return "chưa mở"
	default:
		return NotAvailable
	}
}

// internal/app/assistant/classify/classify.go

// Package classify maps utterances to structured data queries.
package classify

import (
	"strings"

	"github.com/vhht/vhhtbot/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

// Query is a structured read bound to one collection. The filter is opaque
// here; it is executed by the context builder.
type Query struct {
	Name       string
	Collection string
	Filter     bson.M

	// Heading introduces the summary in the prompt.
	Heading string
	// EmptyReply is returned verbatim when the query matches nothing.
	EmptyReply string
	// SetsCurrent makes the first listed campaign the conversation's
	// current campaign.
	SetsCurrent bool
}

// Group binds keywords to a query. Filter builds a fresh filter per match so
// callers may not alias each other's predicates.
type Group struct {
	Keywords []string
	Query    Query
	Filter   func() bson.M
}

// Classifier evaluates groups in declared order.
type Classifier struct {
	groups []Group
}

// New returns a Classifier over groups in the given order.
func New(groups ...Group) *Classifier {
	return &Classifier{groups: groups}
}

// Classify returns the query of the first group with a keyword contained in
// text. text must already be normalized.
func (c *Classifier) Classify(text string) (Query, bool) {
	for _, g := range c.groups {
		for _, kw := range g.Keywords {
			if !strings.Contains(text, kw) {
				continue
			}
			q := g.Query
			if g.Filter != nil {
				q.Filter = g.Filter()
			} else {
				q.Filter = bson.M{}
			}
			return q, true
		}
	}
	return Query{}, false
}

// Default returns the standard query table. Upcoming precedes in-progress
// because "sắp diễn ra" contains "diễn ra"; donors precede donations because
// "người quyên góp" contains "quyên góp".
func Default() *Classifier {
	return New(
		Group{
			Keywords: []string{"sắp diễn ra", "sắp tới", "sắp bắt đầu"},
			Query: Query{
				Name:       "campaigns_upcoming",
				Collection: models.CollectionCampaigns,
				Heading:    "Dưới đây là các chiến dịch sắp diễn ra:",
				EmptyReply: "Hiện tại chưa có chiến dịch nào sắp diễn ra.",
			},
			Filter: func() bson.M { return bson.M{"status": models.CampaignUpcoming} },
		},
		Group{
			Keywords: []string{"đang chạy", "đang diễn ra", "đang hoạt động", "đang mở"},
			Query: Query{
				Name:        "campaigns_in_progress",
				Collection:  models.CollectionCampaigns,
				Heading:     "Dưới đây là các chiến dịch đang diễn ra:",
				EmptyReply:  "Hiện tại chưa có chiến dịch nào đang diễn ra.",
				SetsCurrent: true,
			},
			Filter: func() bson.M { return bson.M{"status": models.CampaignInProgress} },
		},
		Group{
			Keywords: []string{"đã kết thúc", "đã hoàn thành", "đã diễn ra"},
			Query: Query{
				Name:       "campaigns_completed",
				Collection: models.CollectionCampaigns,
				Heading:    "Dưới đây là các chiến dịch đã kết thúc:",
				EmptyReply: "Hiện tại chưa có chiến dịch nào đã kết thúc.",
			},
			Filter: func() bson.M { return bson.M{"status": models.CampaignCompleted} },
		},
		Group{
			Keywords: []string{"nhà hảo tâm", "mạnh thường quân", "người quyên góp", "nhà tài trợ"},
			Query: Query{
				Name:       "donors",
				Collection: models.CollectionDonorProfiles,
				Heading:    "Dưới đây là các nhà hảo tâm đã đóng góp:",
				EmptyReply: "Hiện tại chưa có nhà hảo tâm nào đóng góp.",
			},
			Filter: func() bson.M {
				return bson.M{"donatedCampaigns.0": bson.M{"$exists": true}}
			},
		},
		Group{
			Keywords: []string{"quyên góp", "gây quỹ", "ủng hộ", "từ thiện"},
			Query: Query{
				Name:       "donation_campaigns",
				Collection: models.CollectionDonationCampaigns,
				Heading:    "Dưới đây là các đợt quyên góp đã được duyệt:",
				EmptyReply: "Hiện tại chưa có đợt quyên góp nào.",
			},
			Filter: func() bson.M { return bson.M{"approvalStatus": models.StatusApproved} },
		},
		Group{
			Keywords: []string{"danh sách tình nguyện viên", "những tình nguyện viên", "tình nguyện viên nào"},
			Query: Query{
				Name:       "volunteers",
				Collection: models.CollectionUsers,
				Heading:    "Dưới đây là một số tình nguyện viên đang hoạt động:",
				EmptyReply: "Hiện tại chưa có tình nguyện viên nào.",
			},
			Filter: func() bson.M { return bson.M{"role": "user", "status": "active"} },
		},
	)
}

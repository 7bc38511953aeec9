package classify

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/vhht/vhhtbot/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
)

func TestDefault_Classify(t *testing.T) {
	c := Default()

	tests := []struct {
		input      string
		wantName   string
		wantColl   string
		wantFilter bson.M
	}{
		{"chiến dịch nào sắp diễn ra", "campaigns_upcoming", models.CollectionCampaigns, bson.M{"status": "upcoming"}},
		{"có chiến dịch nào đang diễn ra không", "campaigns_in_progress", models.CollectionCampaigns, bson.M{"status": "in-progress"}},
		{"chiến dịch đang chạy", "campaigns_in_progress", models.CollectionCampaigns, bson.M{"status": "in-progress"}},
		{"những chiến dịch đã kết thúc", "campaigns_completed", models.CollectionCampaigns, bson.M{"status": "completed"}},
		{"ai là người quyên góp nhiều nhất", "donors", models.CollectionDonorProfiles, bson.M{"donatedCampaigns.0": bson.M{"$exists": true}}},
		{"có đợt quyên góp nào không", "donation_campaigns", models.CollectionDonationCampaigns, bson.M{"approvalStatus": "approved"}},
		{"danh sách tình nguyện viên", "volunteers", models.CollectionUsers, bson.M{"role": "user", "status": "active"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := c.Classify(tt.input)
			if !ok {
				t.Fatalf("Classify(%q) found no query", tt.input)
			}
			if got.Name != tt.wantName || got.Collection != tt.wantColl {
				t.Errorf("Classify(%q) = %s/%s, want %s/%s", tt.input, got.Name, got.Collection, tt.wantName, tt.wantColl)
			}
			if diff := cmp.Diff(tt.wantFilter, got.Filter); diff != "" {
				t.Errorf("filter mismatch (-want +got):\n%s", diff)
			}
			if got.EmptyReply == "" {
				t.Error("every query needs an empty reply")
			}
		})
	}
}

func TestClassify_Total(t *testing.T) {
	c := Default()
	inputs := []string{
		"", " ", "chiến dịch mùa hè xanh có bao nhiêu người",
		"nhiệm vụ của tôi", "🙂", "\x00\xff", "diễn ra", "xin chào",
	}
	for _, in := range inputs {
		got, ok := c.Classify(in)
		if ok && got.Collection == "" {
			t.Errorf("Classify(%q) returned a query without a collection", in)
		}
	}
	if _, ok := c.Classify("chiến dịch mùa hè xanh diễn ra khi nào"); ok {
		t.Error("a question about one campaign's dates must not become a listing")
	}
}

func TestClassify_FreshFilter(t *testing.T) {
	c := Default()
	a, _ := c.Classify("đang diễn ra")
	a.Filter["status"] = "mutated"

	b, _ := c.Classify("đang diễn ra")
	if b.Filter["status"] != models.CampaignInProgress {
		t.Errorf("filter aliased between calls: %v", b.Filter)
	}
}

func TestClassify_CurrentOnlyForActiveListing(t *testing.T) {
	c := Default()
	if q, _ := c.Classify("đang diễn ra"); !q.SetsCurrent {
		t.Error("active listing should set the current campaign")
	}
	if q, _ := c.Classify("sắp diễn ra"); q.SetsCurrent {
		t.Error("upcoming listing should not set the current campaign")
	}
}

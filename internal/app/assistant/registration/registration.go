// internal/app/assistant/registration/registration.go

// Package registration registers the caller for a campaign through the
// platform backend.
package registration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	campaignstore "github.com/vhht/vhhtbot/internal/app/store/campaigns"
	"github.com/vhht/vhhtbot/internal/app/system/metrics"
	"github.com/vhht/vhhtbot/internal/domain/models"
	"go.uber.org/zap"
)

// DefaultBackendURL is used when no backend URL is configured.
const DefaultBackendURL = "http://localhost:4000"

var phrases = []string{
	"đăng ký cho tôi", "đăng ký cho mình", "đăng ký giúp",
	"muốn tham gia", "muốn đăng ký", "cho tôi tham gia", "cho mình tham gia",
	"đăng ký vào", "đăng ký chiến dịch", "đăng kí cho tôi",
}

// Detect reports whether text asks to be registered for a campaign.
// text must already be normalized.
func Detect(text string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

// Outcome classifies one registration attempt.
type Outcome string

const (
	NoToken           Outcome = "no_token"
	NoName            Outcome = "no_name"
	NotFound          Outcome = "not_found"
	LookupFailed      Outcome = "lookup_failed"
	Registered        Outcome = "registered"
	AlreadyRegistered Outcome = "already_registered"
	InvalidToken      Outcome = "invalid_token"
	Failed            Outcome = "failed"
	TransportError    Outcome = "transport_error"
)

// Fixed replies that carry no campaign name.
const (
	NoTokenReply        = "Anh/chị cần đăng nhập trước khi đăng ký chiến dịch nha 🫣!"
	NoNameReply         = "Em chưa nhận ra tên chiến dịch nào trong câu nói 😵 Anh/chị nói rõ hơn nha!"
	InvalidTokenReply   = "🚫 Token không hợp lệ rồi anh/chị ơi. Đăng nhập lại giúp em nhen!"
	TransportErrorReply = "Hic, có lỗi gì đó khi em cố gắng đăng ký giúp anh/chị 😭"
	LookupFailedReply   = "Không thể kết nối dữ liệu."
)

// Result is the reply for one attempt. Campaign is set whenever a campaign
// was resolved, whatever the backend answered.
type Result struct {
	Outcome  Outcome
	Reply    string
	Campaign *models.Campaign
}

// CampaignFinder looks campaigns up by their full name. Registration
// changes state on the backend, so a partial name must not resolve.
type CampaignFinder interface {
	FindExact(ctx context.Context, name string, approvedOnly bool) (models.Campaign, error)
}

// Client calls the backend's registration endpoint.
type Client struct {
	baseURL   string
	http      *http.Client
	campaigns CampaignFinder
	log       *zap.Logger
}

// New creates a Client. A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client, campaigns CampaignFinder, logger *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBackendURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		http:      httpClient,
		campaigns: campaigns,
		log:       logger,
	}
}

// Register resolves name to an approved campaign and registers the token's
// owner for it.
func (c *Client) Register(ctx context.Context, token, name string) Result {
	res := c.register(ctx, token, name)
	metrics.RegistrationOutcomes.WithLabelValues(string(res.Outcome)).Inc()
	return res
}

func (c *Client) register(ctx context.Context, token, name string) Result {
	if token == "" {
		return Result{Outcome: NoToken, Reply: NoTokenReply}
	}
	if strings.TrimSpace(name) == "" {
		return Result{Outcome: NoName, Reply: NoNameReply}
	}

	campaign, err := c.campaigns.FindExact(ctx, name, true)
	if errors.Is(err, campaignstore.ErrNotFound) {
		return Result{
			Outcome: NotFound,
			Reply:   fmt.Sprintf("Em không tìm thấy chiến dịch tên **%s** đã được duyệt á 😢", name),
		}
	}
	if err != nil {
		c.log.Error("registration lookup failed", zap.String("name", name), zap.Error(err))
		metrics.StoreErrors.WithLabelValues("campaigns.findExact").Inc()
		return Result{Outcome: LookupFailed, Reply: LookupFailedReply}
	}

	res := Result{Campaign: &campaign}
	url := fmt.Sprintf("%s/campaigns/%s/register", c.baseURL, campaign.ID.Hex())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		c.log.Error("build registration request", zap.Error(err))
		res.Outcome, res.Reply = TransportError, TransportErrorReply
		return res
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("registration call failed", zap.String("campaign_id", campaign.ID.Hex()), zap.Error(err))
		res.Outcome, res.Reply = TransportError, TransportErrorReply
		return res
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		res.Outcome = Registered
		res.Reply = fmt.Sprintf("🎉 Đăng ký thành công vào chiến dịch **%s** 💪, đợi được duyệt nhé!", campaign.Name)
	case http.StatusBadRequest:
		res.Outcome = AlreadyRegistered
		res.Reply = fmt.Sprintf("📌 Anh/chị đã đăng ký chiến dịch **%s** trước đó rồi đó nha!", campaign.Name)
	case http.StatusUnauthorized:
		res.Outcome, res.Reply = InvalidToken, InvalidTokenReply
	default:
		c.log.Warn("registration rejected",
			zap.String("campaign_id", campaign.ID.Hex()),
			zap.Int("status", resp.StatusCode))
		res.Outcome = Failed
		res.Reply = fmt.Sprintf("⚠️ Lỗi khi đăng ký vào chiến dịch **%s** – Mã lỗi %d", campaign.Name, resp.StatusCode)
	}
	return res
}

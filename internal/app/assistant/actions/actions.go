// internal/app/assistant/actions/actions.go

// Package actions maps fixed phrases to canned, non-generative replies.
package actions

import "strings"

// Action is one scripted reply and the phrases that trigger it.
type Action struct {
	Name     string
	Keywords []string
	Reply    string
}

// Matcher evaluates actions in declared order.
type Matcher struct {
	actions []Action
}

// New returns a Matcher over actions in the given order.
func New(actions ...Action) *Matcher {
	return &Matcher{actions: actions}
}

// Match returns the first action with a keyword contained in text.
// text must already be normalized.
func (m *Matcher) Match(text string) (Action, bool) {
	for _, a := range m.actions {
		for _, kw := range a.Keywords {
			if strings.Contains(text, kw) {
				return a, true
			}
		}
	}
	return Action{}, false
}

// Canned replies.
const (
	RegistrationHowToReply = "Để đăng ký chiến dịch, anh/chị đăng nhập vào hệ thống, mở trang chiến dịch muốn tham gia rồi bấm **Đăng ký** nha 📝. " +
		"Ban tổ chức duyệt xong sẽ báo cho anh/chị. Hoặc anh/chị cứ nhắn \"đăng ký cho tôi vào chiến dịch <tên chiến dịch>\" là em đăng ký giúp liền!"

	CertificateReply = "Thông thường chứng chỉ sẽ được cấp khi bạn hoàn thành đủ nhiệm vụ được giao và chiến dịch kết thúc. " +
		"Nếu bạn thắc mắc về tình trạng của mình, cứ liên hệ ban tổ chức nha 💬"

	TaskPolicyReply = "Nhiệm vụ do ban tổ chức phân công sau khi anh/chị được duyệt vào chiến dịch 📋. " +
		"Anh/chị có thể hỏi em \"nhiệm vụ của tôi\", \"nhiệm vụ hôm nay\" hoặc \"nhiệm vụ tuần này\" để xem lịch của mình nha!"

	GreetingReply = "Em chào anh/chị 👋 Em là trợ lý của nền tảng tình nguyện. " +
		"Anh/chị có thể hỏi em về các chiến dịch, nhiệm vụ của mình, hoặc nhờ em đăng ký chiến dịch nha!"
)

// Default returns the standard scripted actions. Registration how-to comes
// first so that "cách đăng ký" is never treated as a registration request.
func Default() *Matcher {
	return New(
		Action{
			Name: "registration-howto",
			Keywords: []string{
				"cách đăng ký", "làm sao để đăng ký", "làm sao đăng ký",
				"đăng ký như thế nào", "đăng ký thế nào", "hướng dẫn đăng ký",
			},
			Reply: RegistrationHowToReply,
		},
		Action{
			Name:     "certificate",
			Keywords: []string{"nhận chứng chỉ", "cấp chứng chỉ", "giấy chứng nhận"},
			Reply:    CertificateReply,
		},
		Action{
			Name: "task-policy",
			Keywords: []string{
				"nhận nhiệm vụ", "phân công nhiệm vụ", "giao nhiệm vụ", "được giao việc",
			},
			Reply: TaskPolicyReply,
		},
		Action{
			Name:     "greeting",
			Keywords: []string{"xin chào", "chào em", "chào bạn", "chào bot", "hello"},
			Reply:    GreetingReply,
		},
	)
}

// internal/app/assistant/prompt/prompt.go

// Package prompt assembles the text handed to the completion backend.
package prompt

import "strings"

// Schema describes the platform data to the model.
const Schema = `Hệ thống quản lý chiến dịch tình nguyện gồm các loại dữ liệu:
- Chiến dịch: tên, mô tả, thời gian bắt đầu/kết thúc, trạng thái (sắp diễn ra, đang diễn ra, đã kết thúc), địa điểm, tình nguyện viên tham gia, chứng chỉ.
- Giai đoạn: thuộc một chiến dịch, có thời gian riêng; mỗi giai đoạn gồm nhiều ngày, mỗi ngày có các nhiệm vụ.
- Phòng ban: thuộc một chiến dịch.
- Đợt quyên góp và nhà hảo tâm: số tiền mục tiêu, số tiền đã quyên góp, tổng đóng góp.
- Tình nguyện viên: họ tên, kỹ năng, lĩnh vực quan tâm.`

// Tone is the style directive for every reply.
const Tone = `Trả lời bằng tiếng Việt, xưng "em" và gọi người dùng là "anh/chị". Giọng văn thân thiện, ngắn gọn, dễ hiểu.`

// Grounding forbids fabrication.
const Grounding = `Chỉ sử dụng thông tin trong phần dữ liệu ở trên. Nếu dữ liệu không có câu trả lời, hãy nói rõ là chưa có thông tin; tuyệt đối không tự bịa ra thông tin.`

// Parts are the variable pieces of one prompt.
type Parts struct {
	// Heading introduces Data, e.g. "Thông tin chiến dịch:".
	Heading string
	Data    string
	// Utterance is the user's message exactly as received.
	Utterance string
}

// Build joins schema, data, tone, the utterance and the grounding rule.
func Build(p Parts) string {
	var sb strings.Builder
	sb.WriteString(Schema)
	sb.WriteString("\n\n")
	if p.Heading != "" {
		sb.WriteString(p.Heading)
		sb.WriteString("\n")
	}
	sb.WriteString(p.Data)
	sb.WriteString("\n\n")
	sb.WriteString(Tone)
	sb.WriteString("\n\nNgười dùng hỏi: ")
	sb.WriteString(p.Utterance)
	sb.WriteString("\n\n")
	sb.WriteString(Grounding)
	return sb.String()
}

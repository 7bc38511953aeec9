// internal/app/assistant/contextbuild/builder.go

// Package contextbuild assembles bounded natural-language summaries of
// platform records for the generative responder.
package contextbuild

import (
	"context"
	"fmt"
	"strings"

	"github.com/vhht/vhhtbot/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MaxTasks caps the task titles listed in a campaign context.
const MaxTasks = 10

// PhaseReader reads a campaign's phases and their days.
type PhaseReader interface {
	ListByCampaign(ctx context.Context, campaignID primitive.ObjectID) ([]models.Phase, error)
	ListDays(ctx context.Context, phaseID primitive.ObjectID) ([]models.PhaseDay, error)
}

// TaskReader reads the tasks of a phase day.
type TaskReader interface {
	ListByPhaseDay(ctx context.Context, phaseDayID primitive.ObjectID) ([]models.Task, error)
}

// DepartmentReader reads a campaign's departments.
type DepartmentReader interface {
	ListByCampaign(ctx context.Context, campaignID primitive.ObjectID) ([]models.Department, error)
}

// Builder renders summaries. All reads are independent; a failed or
// dangling read degrades one field to a placeholder and never aborts the
// enclosing summary.
type Builder struct {
	records     RecordFinder
	phases      PhaseReader
	tasks       TaskReader
	departments DepartmentReader
	log         *zap.Logger
}

// New creates a Builder.
func New(records RecordFinder, phases PhaseReader, tasks TaskReader, departments DepartmentReader, logger *zap.Logger) *Builder {
	return &Builder{
		records:     records,
		phases:      phases,
		tasks:       tasks,
		departments: departments,
		log:         logger,
	}
}

// BuildCampaignContext renders everything the assistant knows about c.
// The output depends only on c and the stored records, so repeated calls
// without intervening writes yield identical text.
func (b *Builder) BuildCampaignContext(ctx context.Context, c models.Campaign) string {
	ref := c.ID.Hex()
	var sb strings.Builder

	fmt.Fprintf(&sb, "Chiến dịch: %s\n", b.orNA(c.Name, "campaign.name", ref))
	fmt.Fprintf(&sb, "Trạng thái: %s\n", campaignStatusLabel(c.Status))
	fmt.Fprintf(&sb, "Thời gian: %s đến %s\n",
		b.date(c.StartDate, "campaign.startDate", ref),
		b.date(c.EndDate, "campaign.endDate", ref))
	fmt.Fprintf(&sb, "Địa điểm: %s\n", b.orNA(c.Location.Address, "campaign.location", ref))
	fmt.Fprintf(&sb, "Mô tả: %s\n", b.orNA(c.Description, "campaign.description", ref))
	sb.WriteString(volunteerLine(c.Volunteers))
	if c.CertificatesIssued {
		sb.WriteString("Chứng chỉ: đã cấp\n")
	} else {
		sb.WriteString("Chứng chỉ: chưa cấp\n")
	}

	phases, phasesErr := b.phases.ListByCampaign(ctx, c.ID)
	switch {
	case phasesErr != nil:
		fmt.Fprintf(&sb, "Giai đoạn: %s\n", Placeholder(b.log, "phases", ref, UnknownPhase, phasesErr))
	case len(phases) == 0:
		fmt.Fprintf(&sb, "Giai đoạn: %s\n", NoPhases)
	default:
		sb.WriteString("Giai đoạn:\n")
		for i, p := range phases {
			pref := p.ID.Hex()
			fmt.Fprintf(&sb, "  %d. %s (%s đến %s)\n", i+1,
				b.orNA(p.Name, "phase.name", pref),
				b.date(p.StartDate, "phase.startDate", pref),
				b.date(p.EndDate, "phase.endDate", pref))
		}
	}

	titles := b.taskTitles(ctx, phases)
	switch {
	case len(titles) == 0:
		fmt.Fprintf(&sb, "Nhiệm vụ: %s\n", NoTasks)
	case len(titles) > MaxTasks:
		fmt.Fprintf(&sb, "Nhiệm vụ: %s (+%d nhiệm vụ khác)\n",
			strings.Join(titles[:MaxTasks], ", "), len(titles)-MaxTasks)
	default:
		fmt.Fprintf(&sb, "Nhiệm vụ: %s\n", strings.Join(titles, ", "))
	}

	depts, err := b.departments.ListByCampaign(ctx, c.ID)
	switch {
	case err != nil:
		fmt.Fprintf(&sb, "Phòng ban: %s", Placeholder(b.log, "departments", ref, NotAvailable, err))
	case len(depts) == 0:
		fmt.Fprintf(&sb, "Phòng ban: %s", NoDepartments)
	default:
		names := make([]string, 0, len(depts))
		for _, d := range depts {
			names = append(names, b.orNA(d.Name, "department.name", d.ID.Hex()))
		}
		fmt.Fprintf(&sb, "Phòng ban: %s", strings.Join(names, ", "))
	}

	return sb.String()
}

// taskTitles collects task titles across every day of every phase, in
// phase then day then storage order.
func (b *Builder) taskTitles(ctx context.Context, phases []models.Phase) []string {
	var titles []string
	for _, p := range phases {
		days, err := b.phases.ListDays(ctx, p.ID)
		if err != nil {
			Placeholder(b.log, models.CollectionPhaseDays, p.ID.Hex(), NoTasks, err)
			continue
		}
		for _, d := range days {
			tasks, err := b.tasks.ListByPhaseDay(ctx, d.ID)
			if err != nil {
				Placeholder(b.log, "tasks", d.ID.Hex(), NoTasks, err)
				continue
			}
			for _, t := range tasks {
				titles = append(titles, b.orNA(t.Title, "task.title", t.ID.Hex()))
			}
		}
	}
	return titles
}

// volunteerLine renders the participation count with a fixed-order status
// breakdown. The unknown bucket is listed only when non-empty.
func volunteerLine(vs []models.VolunteerParticipation) string {
	var approved, pending, rejected, unknown int
	for _, v := range vs {
		switch v.Status {
		case models.StatusApproved:
			approved++
		case models.StatusPending:
			pending++
		case models.StatusRejected:
			rejected++
		default:
			unknown++
		}
	}
	line := fmt.Sprintf("Số tình nguyện viên: %d (đã duyệt: %d, chờ duyệt: %d, bị từ chối: %d",
		len(vs), approved, pending, rejected)
	if unknown > 0 {
		line += fmt.Sprintf(", không rõ: %d", unknown)
	}
	return line + ")\n"
}

func campaignStatusLabel(s string) string {
	switch s {
	case models.CampaignUpcoming:
		return "sắp diễn ra"
	case models.CampaignInProgress:
		return "đang diễn ra"
	case models.CampaignCompleted:
		return "đã kết thúc"
	default:
		return NotAvailable
	}
}

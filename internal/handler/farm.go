package handler

import (
    "errors"
    "fmt"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/farm-biosecurity/internal/access"
    "github.com/iliyamo/farm-biosecurity/internal/assessment"
    "github.com/iliyamo/farm-biosecurity/internal/flash"
    "github.com/iliyamo/farm-biosecurity/internal/logger"
    "github.com/iliyamo/farm-biosecurity/internal/middleware"
    "github.com/iliyamo/farm-biosecurity/internal/model"
    "github.com/iliyamo/farm-biosecurity/internal/queue"
    "github.com/iliyamo/farm-biosecurity/internal/repository"
    "github.com/iliyamo/farm-biosecurity/internal/service"
)

// FarmHandler serves a farm's detail page and its assessment forms.
// Access is decided per farm by the access package.
type FarmHandler struct {
    Farms      *repository.FarmRepo
    Risks      *repository.RiskRepo
    Checklists *repository.ChecklistRepo
    Notifier   service.AlertNotifier
    Log        *logger.Logger
}

func NewFarmHandler(f *repository.FarmRepo, r *repository.RiskRepo, cl *repository.ChecklistRepo, n service.AlertNotifier, log *logger.Logger) *FarmHandler {
    return &FarmHandler{Farms: f, Risks: r, Checklists: cl, Notifier: n, Log: log}
}

type farmViewData struct {
    Farm       *model.Farm
    Risks      []*model.RiskAssessment
    Checklists []*model.Checklist
}

// View shows the farm with the records the actor may see: all of them for
// an admin, only their own for the owning farmer or assigned vet.
func (h *FarmHandler) View(c echo.Context) error {
    farm, err := loadFarm(c, h.Farms, h.Log)
    if farm == nil {
        return err
    }
    author, ok := access.RecordScope(middleware.CurrentActor(c), farm)
    if !ok {
        return redirect(c, flash.Danger, "Unauthorized", "/dashboard")
    }

    ctx, cancel := dbCtx(c)
    defer cancel()
    risks, err := h.Risks.ListByFarm(ctx, farm.ID, author)
    if err != nil {
        return serverError(c, h.Log, "list risk assessments", err)
    }
    checklists, err := h.Checklists.ListByFarm(ctx, farm.ID, author)
    if err != nil {
        return serverError(c, h.Log, "list checklists", err)
    }
    return render(c, http.StatusOK, "farm_view", farm.Name, farmViewData{Farm: farm, Risks: risks, Checklists: checklists})
}

// guardedFarm loads the farm and enforces access for the form routes,
// which answer a bare 403 instead of redirecting.
func (h *FarmHandler) guardedFarm(c echo.Context) (*model.Farm, error) {
    farm, err := loadFarm(c, h.Farms, h.Log)
    if farm == nil {
        return nil, err
    }
    if !access.CanAccess(middleware.CurrentActor(c), farm) {
        return nil, c.String(http.StatusForbidden, "Unauthorized")
    }
    return farm, nil
}

type riskForm struct {
    Q1    string `form:"q1" validate:"required,numeric"`
    Q2    string `form:"q2" validate:"required,numeric"`
    Q3    string `form:"q3" validate:"required,numeric"`
    Notes string `form:"notes" validate:"max=2000"`
}

type riskFormData struct {
    Farm     *model.Farm
    Form     riskForm
    Min, Max int
}

func (h *FarmHandler) ShowRisk(c echo.Context) error {
    farm, err := h.guardedFarm(c)
    if farm == nil {
        return err
    }
    return h.renderRisk(c, farm, riskForm{}, http.StatusOK)
}

func (h *FarmHandler) renderRisk(c echo.Context, farm *model.Farm, f riskForm, status int) error {
    return render(c, status, "risk_form", "Risk assessment", riskFormData{
        Farm: farm, Form: f, Min: assessment.MinAnswer, Max: assessment.MaxAnswer,
    })
}

// SubmitRisk scores the three answers, stores the assessment and raises a
// high-risk alert when the score lands in the High band.
func (h *FarmHandler) SubmitRisk(c echo.Context) error {
    farm, err := h.guardedFarm(c)
    if farm == nil {
        return err
    }
    var f riskForm
    if err := c.Bind(&f); err != nil {
        flash.Add(c, flash.Danger, "Invalid form submission.")
        return h.renderRisk(c, farm, f, http.StatusBadRequest)
    }
    f.Notes = strings.TrimSpace(f.Notes)
    if err := c.Validate(&f); err != nil {
        flash.Add(c, flash.Danger, describe(err))
        return h.renderRisk(c, farm, f, http.StatusBadRequest)
    }
    answers, ok := parseAnswers(f.Q1, f.Q2, f.Q3)
    if !ok {
        flash.Add(c, flash.Danger, "Answers must be whole numbers.")
        return h.renderRisk(c, farm, f, http.StatusBadRequest)
    }
    res, err := assessment.ComputeRiskLevel(answers[0], answers[1], answers[2])
    if err != nil {
        if errors.Is(err, assessment.ErrAnswerOutOfRange) {
            flash.Add(c, flash.Danger, fmt.Sprintf("Each answer must be between %d and %d.", assessment.MinAnswer, assessment.MaxAnswer))
            return h.renderRisk(c, farm, f, http.StatusBadRequest)
        }
        return serverError(c, h.Log, "score risk", err)
    }

    actor := middleware.CurrentActor(c)
    ra := &model.RiskAssessment{
        FarmID: farm.ID,
        UserID: actor.ID,
        Score:  res.Score,
        Level:  string(res.Level),
        Notes:  f.Notes,
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    if err := h.Risks.Create(ctx, ra); err != nil {
        return serverError(c, h.Log, "create risk assessment", err)
    }
    h.Log.Info("risk assessment saved", "farm_id", farm.ID, "user_id", actor.ID, "score", res.Score, "level", string(res.Level))

    if res.IsHighRisk() {
        ev := queue.HighRiskAlertEvent{
            AssessmentID: ra.ID,
            FarmID:       farm.ID,
            FarmName:     farm.Name,
            Location:     farm.Location,
            AuthorID:     actor.ID,
            AuthorRole:   string(actor.Role),
            Score:        res.Score,
            Level:        string(res.Level),
            Notes:        ra.Notes,
            AssessedAt:   ra.CreatedAt.UTC().Format(time.RFC3339),
        }
        if err := h.Notifier.NotifyHighRisk(ctx, ev); err != nil {
            h.Log.Error("high risk alert failed", "farm_id", farm.ID, "assessment_id", ra.ID, "error", err)
        }
    }
    return redirect(c, flash.Success, fmt.Sprintf("Assessment saved: %s risk", res.Level), fmt.Sprintf("/farm/%d", farm.ID))
}

func parseAnswers(raw ...string) ([]int, bool) {
    out := make([]int, len(raw))
    for i, s := range raw {
        n, err := strconv.Atoi(strings.TrimSpace(s))
        if err != nil {
            return nil, false
        }
        out[i] = n
    }
    return out, true
}

type checklistFormData struct {
    Farm *model.Farm
}

func (h *FarmHandler) ShowChecklist(c echo.Context) error {
    farm, err := h.guardedFarm(c)
    if farm == nil {
        return err
    }
    return render(c, http.StatusOK, "checklist_form", "Checklist", checklistFormData{Farm: farm})
}

// SubmitChecklist records the three yes/no items and their compliance
// percentage.  An unchecked box is simply absent from the form.
func (h *FarmHandler) SubmitChecklist(c echo.Context) error {
    farm, err := h.guardedFarm(c)
    if farm == nil {
        return err
    }
    hygiene := c.FormValue("hygiene") != ""
    feed := c.FormValue("feed") != ""
    visitor := c.FormValue("visitor") != ""

    actor := middleware.CurrentActor(c)
    cl := &model.Checklist{
        FarmID:         farm.ID,
        UserID:         actor.ID,
        Hygiene:        hygiene,
        FeedQuality:    feed,
        VisitorControl: visitor,
        Compliance:     assessment.ComputeCompliance(hygiene, feed, visitor),
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    if err := h.Checklists.Create(ctx, cl); err != nil {
        return serverError(c, h.Log, "create checklist", err)
    }
    h.Log.Info("checklist saved", "farm_id", farm.ID, "user_id", actor.ID, "compliance", cl.Compliance)
    return redirect(c, flash.Success, fmt.Sprintf("Checklist saved: Compliance %.2f%%", cl.Compliance), fmt.Sprintf("/farm/%d", farm.ID))
}

package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/farm-biosecurity/internal/export"
    "github.com/iliyamo/farm-biosecurity/internal/flash"
    "github.com/iliyamo/farm-biosecurity/internal/logger"
    "github.com/iliyamo/farm-biosecurity/internal/middleware"
    "github.com/iliyamo/farm-biosecurity/internal/model"
    "github.com/iliyamo/farm-biosecurity/internal/repository"
)

// AdminHandler serves the admin-only pages.  Role enforcement happens in
// middleware.RequireAdmin on the route group.
type AdminHandler struct {
    Users    *repository.UserRepo
    Farms    *repository.FarmRepo
    Training *repository.TrainingRepo
    Log      *logger.Logger

    // PurgeTraining drops any cached copy of the public training page.
    PurgeTraining func(ctx context.Context) error
}

func NewAdminHandler(u *repository.UserRepo, f *repository.FarmRepo, t *repository.TrainingRepo, log *logger.Logger) *AdminHandler {
    return &AdminHandler{Users: u, Farms: f, Training: t, Log: log}
}

type adminData struct {
    Farms []*model.Farm
    Users []*model.User
}

// Panel lists all farms and all users.
func (h *AdminHandler) Panel(c echo.Context) error {
    ctx, cancel := dbCtx(c)
    defer cancel()
    farms, err := h.Farms.ListAll(ctx)
    if err != nil {
        return serverError(c, h.Log, "list farms", err)
    }
    users, err := h.Users.ListAll(ctx)
    if err != nil {
        return serverError(c, h.Log, "list users", err)
    }
    return render(c, http.StatusOK, "admin", "Admin", adminData{Farms: farms, Users: users})
}

type farmForm struct {
    Name        string `form:"name" validate:"required,max=120"`
    Location    string `form:"location" validate:"max=200"`
    AnimalCount string `form:"animal_count" validate:"omitempty,numeric"`
    FarmerID    string `form:"farmer_id"`
    VetID       string `form:"vet_id" validate:"omitempty,numeric"`
}

type farmFormData struct {
    Action  string
    Form    farmForm
    Farmers []*model.User
    Vets    []*model.User
}

// farmCreator describes one of the two farm creation pages; they differ
// only in where they post and where they land afterwards.
type farmCreator struct {
    title, action, done, doneMsg string
}

var (
    adminAddFarm = farmCreator{"Add farm", "/admin/add_farm", "/admin", "Farm added successfully!"}
    newFarm      = farmCreator{"New farm", "/farm/new", "/dashboard", "Farm created successfully"}
)

func (h *AdminHandler) ShowAddFarm(c echo.Context) error { return h.showFarmForm(c, adminAddFarm, farmForm{}, http.StatusOK) }
func (h *AdminHandler) AddFarm(c echo.Context) error     { return h.createFarm(c, adminAddFarm) }
func (h *AdminHandler) ShowNewFarm(c echo.Context) error { return h.showFarmForm(c, newFarm, farmForm{}, http.StatusOK) }
func (h *AdminHandler) NewFarm(c echo.Context) error     { return h.createFarm(c, newFarm) }

func (h *AdminHandler) showFarmForm(c echo.Context, fc farmCreator, f farmForm, status int) error {
    ctx, cancel := dbCtx(c)
    defer cancel()
    farmers, err := h.Users.ListByRole(ctx, model.RoleFarmer)
    if err != nil {
        return serverError(c, h.Log, "list farmers", err)
    }
    vets, err := h.Users.ListByRole(ctx, model.RoleVet)
    if err != nil {
        return serverError(c, h.Log, "list vets", err)
    }
    return render(c, status, "farm_form", fc.title, farmFormData{
        Action: fc.action, Form: f, Farmers: farmers, Vets: vets,
    })
}

func (h *AdminHandler) farmFormFailed(c echo.Context, fc farmCreator, f farmForm, msg string) error {
    flash.Add(c, flash.Danger, msg)
    return h.showFarmForm(c, fc, f, http.StatusBadRequest)
}

// createFarm validates the farm form.  The farmer is mandatory and must
// hold the farmer role; the vet is optional but must be a vet if given.
func (h *AdminHandler) createFarm(c echo.Context, fc farmCreator) error {
    var f farmForm
    if err := c.Bind(&f); err != nil {
        return h.farmFormFailed(c, fc, f, "Invalid form submission.")
    }
    f.Name = strings.TrimSpace(f.Name)
    f.Location = strings.TrimSpace(f.Location)
    f.AnimalCount = strings.TrimSpace(f.AnimalCount)
    if strings.TrimSpace(f.FarmerID) == "" {
        return h.farmFormFailed(c, fc, f, "You must select a farmer!")
    }
    if err := c.Validate(&f); err != nil {
        return h.farmFormFailed(c, fc, f, describe(err))
    }
    animals := 0
    if f.AnimalCount != "" {
        n, err := strconv.Atoi(f.AnimalCount)
        if err != nil || n < 0 {
            return h.farmFormFailed(c, fc, f, "Animal count must be zero or more.")
        }
        animals = n
    }

    ctx, cancel := dbCtx(c)
    defer cancel()

    farmerID, err := strconv.ParseUint(f.FarmerID, 10, 64)
    if err != nil {
        return h.farmFormFailed(c, fc, f, "You must select a farmer!")
    }
    if ok, err := h.hasRole(ctx, farmerID, model.RoleFarmer); err != nil {
        return serverError(c, h.Log, "load farmer", err)
    } else if !ok {
        return h.farmFormFailed(c, fc, f, "You must select a farmer!")
    }

    farm := &model.Farm{Name: f.Name, Location: f.Location, AnimalCount: animals, FarmerID: farmerID}
    if f.VetID != "" {
        vetID, err := strconv.ParseUint(f.VetID, 10, 64)
        if err != nil {
            return h.farmFormFailed(c, fc, f, "Please choose a valid vet.")
        }
        if ok, err := h.hasRole(ctx, vetID, model.RoleVet); err != nil {
            return serverError(c, h.Log, "load vet", err)
        } else if !ok {
            return h.farmFormFailed(c, fc, f, "Please choose a valid vet.")
        }
        farm.VetID = &vetID
    }

    if err := h.Farms.Create(ctx, farm); err != nil {
        return serverError(c, h.Log, "create farm", err)
    }
    h.Log.Info("farm created", "farm_id", farm.ID, "by", middleware.CurrentActor(c).ID)
    return redirect(c, flash.Success, fc.doneMsg, fc.done)
}

func (h *AdminHandler) hasRole(ctx context.Context, id uint64, role model.Role) (bool, error) {
    u, err := h.Users.GetByID(ctx, id)
    if err != nil {
        if errors.Is(err, repository.ErrUserNotFound) {
            return false, nil
        }
        return false, err
    }
    return u.Role == role, nil
}

// ExportCSV streams every farm as farms.csv.
func (h *AdminHandler) ExportCSV(c echo.Context) error {
    farms, err := h.exportFarms(c)
    if err != nil {
        return serverError(c, h.Log, "list farms for export", err)
    }
    res := c.Response()
    res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
    res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="farms.csv"`)
    res.WriteHeader(http.StatusOK)
    if err := export.WriteCSV(res, farms); err != nil {
        h.Log.Error("write csv export", "error", err)
    }
    return nil
}

// ExportXLSX streams every farm as farms.xlsx.
func (h *AdminHandler) ExportXLSX(c echo.Context) error {
    farms, err := h.exportFarms(c)
    if err != nil {
        return serverError(c, h.Log, "list farms for export", err)
    }
    res := c.Response()
    res.Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
    res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="farms.xlsx"`)
    res.WriteHeader(http.StatusOK)
    if err := export.WriteXLSX(res, farms); err != nil {
        h.Log.Error("write xlsx export", "error", err)
    }
    return nil
}

func (h *AdminHandler) exportFarms(c echo.Context) ([]*model.Farm, error) {
    ctx, cancel := dbCtx(c)
    defer cancel()
    farms, err := h.Farms.ListAll(ctx)
    if err == nil {
        h.Log.Info("farms exported", "count", len(farms), "by", middleware.CurrentActor(c).ID)
    }
    return farms, err
}

// DeleteFarm removes a farm together with its assessments and checklists.
func (h *AdminHandler) DeleteFarm(c echo.Context) error {
    id, ok := parseID(c, "id")
    if !ok {
        return c.String(http.StatusNotFound, "Farm not found")
    }
    ctx, cancel := dbCtx(c)
    defer cancel()
    if err := h.Farms.Delete(ctx, id); err != nil {
        if errors.Is(err, repository.ErrFarmNotFound) {
            return c.String(http.StatusNotFound, "Farm not found")
        }
        return serverError(c, h.Log, "delete farm", err)
    }
    h.Log.Info("farm deleted", "farm_id", id, "by", middleware.CurrentActor(c).ID)
    return redirect(c, flash.Success, "Farm deleted.", "/admin")
}

type trainingForm struct {
    Title       string `form:"title" validate:"required,max=200"`
    Description string `form:"description" validate:"max=2000"`
    URL         string `form:"url" validate:"omitempty,url,max=500"`
}

type trainingAdminData struct {
    Form    trainingForm
    Modules []*model.TrainingModule
}

func (h *AdminHandler) ShowTraining(c echo.Context) error {
    return h.showTraining(c, trainingForm{}, http.StatusOK)
}

func (h *AdminHandler) showTraining(c echo.Context, f trainingForm, status int) error {
    ctx, cancel := dbCtx(c)
    defer cancel()
    mods, err := h.Training.ListAll(ctx)
    if err != nil {
        return serverError(c, h.Log, "list training", err)
    }
    return render(c, status, "training_admin", "Training modules", trainingAdminData{Form: f, Modules: mods})
}

// AddTraining publishes a training module and drops the cached library page.
func (h *AdminHandler) AddTraining(c echo.Context) error {
    var f trainingForm
    if err := c.Bind(&f); err != nil {
        flash.Add(c, flash.Danger, "Invalid form submission.")
        return h.showTraining(c, f, http.StatusBadRequest)
    }
    f.Title = strings.TrimSpace(f.Title)
    f.Description = strings.TrimSpace(f.Description)
    f.URL = strings.TrimSpace(f.URL)
    if err := c.Validate(&f); err != nil {
        flash.Add(c, flash.Danger, describe(err))
        return h.showTraining(c, f, http.StatusBadRequest)
    }

    ctx, cancel := dbCtx(c)
    defer cancel()
    m := &model.TrainingModule{Title: f.Title, Description: f.Description, URL: f.URL}
    if err := h.Training.Create(ctx, m); err != nil {
        return serverError(c, h.Log, "create training", err)
    }
    if h.PurgeTraining != nil {
        if err := h.PurgeTraining(ctx); err != nil {
            h.Log.Warn("purge training cache", "error", err)
        }
    }
    return redirect(c, flash.Success, "Training module added.", "/admin/training")
}

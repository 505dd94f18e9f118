package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/farm-biosecurity/internal/logger"
    "github.com/iliyamo/farm-biosecurity/internal/model"
    "github.com/iliyamo/farm-biosecurity/internal/repository"
    "github.com/iliyamo/farm-biosecurity/internal/view"
)

// TrainingHandler serves the public training library.
type TrainingHandler struct {
    Training *repository.TrainingRepo
    Log      *logger.Logger
}

func NewTrainingHandler(t *repository.TrainingRepo, log *logger.Logger) *TrainingHandler {
    return &TrainingHandler{Training: t, Log: log}
}

type trainingData struct {
    Modules []*model.TrainingModule
}

// List renders the library.  The page is identical for every visitor so it
// can sit behind the response cache; it carries no user or flash state.
func (h *TrainingHandler) List(c echo.Context) error {
    ctx, cancel := dbCtx(c)
    defer cancel()
    mods, err := h.Training.ListAll(ctx)
    if err != nil {
        return serverError(c, h.Log, "list training", err)
    }
    return c.Render(http.StatusOK, "training", view.Page{Title: "Training", Data: trainingData{Modules: mods}})
}

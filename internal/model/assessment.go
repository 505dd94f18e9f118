package model

import "time"

// RiskAssessment records one submitted risk questionnaire for a farm.
// Score is the sum of the answers and Level is derived from it.
type RiskAssessment struct {
    ID         uint64    // risk_assessments.id
    FarmID     uint64    // risk_assessments.farm_id
    UserID     uint64    // risk_assessments.user_id (author)
    Score      int       // risk_assessments.score
    Level      string    // risk_assessments.level (Low, Medium, High)
    Notes      string    // risk_assessments.notes
    CreatedAt  time.Time // risk_assessments.created_at
    AuthorName string    // users.name of the author, filled by listings
}

// Checklist records one compliance checklist for a farm.
type Checklist struct {
    ID             uint64    // checklists.id
    FarmID         uint64    // checklists.farm_id
    UserID         uint64    // checklists.user_id (author)
    Hygiene        bool      // checklists.hygiene
    FeedQuality    bool      // checklists.feed_quality
    VisitorControl bool      // checklists.visitor_control
    Compliance     float64   // checklists.compliance (percent)
    CreatedAt      time.Time // checklists.created_at
    AuthorName     string
}

// TrainingModule is a piece of biosecurity training material (a PDF or
// video link) shown in the public training library.
type TrainingModule struct {
    ID          uint64    // training_modules.id
    Title       string    // training_modules.title
    Description string    // training_modules.description
    URL         string    // training_modules.url
    CreatedAt   time.Time // training_modules.created_at
}

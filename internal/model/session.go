package model

import "time"

type SessionStatus string

const (
	SessionActive    SessionStatus = "active"
	SessionSubmitted SessionStatus = "submitted"
	SessionCancelled SessionStatus = "cancelled"
)

// NavState identifies the section and the index into that section's visible question list
type NavState struct {
	SectionID     string `json:"sectionId" bson:"sectionId"`
	QuestionIndex int    `json:"questionIndex" bson:"questionIndex"`
}

// SavedSnapshot is the copy of the answers taken by an explicit save
type SavedSnapshot struct {
	Answers AnswerMap `json:"answers" bson:"answers"`
	Nav     NavState  `json:"nav" bson:"nav"`
	SavedAt time.Time `json:"savedAt" bson:"savedAt"`
}

// WizardSession is one user's pass through a questionnaire
type WizardSession struct {
	ID              string         `json:"id" bson:"_id"`
	QuestionnaireID string         `json:"questionnaireId" bson:"questionnaireId"`
	OwnerID         string         `json:"ownerId" bson:"ownerId"`
	Status          SessionStatus  `json:"status" bson:"status"`
	Answers         AnswerMap      `json:"answers" bson:"answers"`
	Nav             NavState       `json:"nav" bson:"nav"`
	Saved           *SavedSnapshot `json:"saved,omitempty" bson:"saved,omitempty"`
	StartedAt       time.Time      `json:"startedAt" bson:"startedAt"`
	UpdatedAt       time.Time      `json:"updatedAt" bson:"updatedAt"`
	SubmittedAt     *time.Time     `json:"submittedAt,omitempty" bson:"submittedAt,omitempty"`
}

// Submission is the final answer set handed to the submitter
type Submission struct {
	ID              string    `json:"id" bson:"_id,omitempty"`
	SessionID       string    `json:"sessionId" bson:"sessionId"`
	QuestionnaireID string    `json:"questionnaireId" bson:"questionnaireId"`
	OwnerID         string    `json:"ownerId" bson:"ownerId"`
	Answers         AnswerMap `json:"answers" bson:"answers"`
	Progress        int       `json:"progress" bson:"progress"`
	SubmittedAt     time.Time `json:"submittedAt" bson:"submittedAt"`
}

// WizardView is what a client needs to render the current step
type WizardView struct {
	Session          *WizardSession `json:"session"`
	Section          *Section       `json:"section,omitempty"`
	Current          *Question      `json:"currentQuestion,omitempty"`
	VisibleQuestions []Question     `json:"visibleQuestions"`
	Progress         int            `json:"progress"`
	IsFirst          bool           `json:"isFirst"`
	IsLast           bool           `json:"isLast"`
}

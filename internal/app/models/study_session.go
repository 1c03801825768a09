package models

import "time"

// SessionType is how a study session was recorded
type SessionType string

const (
	SessionTypeTimer        SessionType = "timer"
	SessionTypeManualLog    SessionType = "manual-log"
	SessionTypeGroupSession SessionType = "group-session"
)

// Difficulty is the self-reported difficulty of a session
type Difficulty string

const (
	DifficultyEasy        Difficulty = "easy"
	DifficultyMedium      Difficulty = "medium"
	DifficultyChallenging Difficulty = "challenging"
)

// StudyTechnique is the optional technique used during a session
type StudyTechnique string

const (
	TechniquePomodoro         StudyTechnique = "pomodoro"
	TechniqueActiveRecall     StudyTechnique = "active-recall"
	TechniqueSpacedRepetition StudyTechnique = "spaced-repetition"
	TechniquePracticeProblems StudyTechnique = "practice-problems"
	TechniqueFlashcards       StudyTechnique = "flashcards"
	TechniqueReading          StudyTechnique = "reading"
	TechniqueGroupDiscussion  StudyTechnique = "group-discussion"
	TechniqueOther            StudyTechnique = "other"
)

func (t SessionType) Valid() bool {
	switch t {
	case SessionTypeTimer, SessionTypeManualLog, SessionTypeGroupSession:
		return true
	}
	return false
}

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyChallenging:
		return true
	}
	return false
}

func (t StudyTechnique) Valid() bool {
	switch t {
	case TechniquePomodoro, TechniqueActiveRecall, TechniqueSpacedRepetition, TechniquePracticeProblems,
		TechniqueFlashcards, TechniqueReading, TechniqueGroupDiscussion, TechniqueOther:
		return true
	}
	return false
}

// SessionComment is a short reply on a study session
type SessionComment struct {
	ID        string    `json:"id" db:"id" bson:"id"`
	UserID    string    `json:"userId" db:"user_id" bson:"userId"`
	Content   string    `json:"content" db:"content" bson:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" bson:"createdAt"`
}

// StudySession is a logged block of study time for a class
type StudySession struct {
	ID             string           `json:"id" db:"id" bson:"_id"`
	ClassID        string           `json:"classId" db:"class_id" bson:"classId"`
	UserID         string           `json:"userId" db:"user_id" bson:"userId"`
	Type           SessionType      `json:"type" db:"type" bson:"type"`
	Duration       int              `json:"duration" db:"duration" bson:"duration"` // Minutes, at least 1
	Topic          string           `json:"topic" db:"topic" bson:"topic"`
	Subtopics      []string         `json:"subtopics" db:"subtopics" bson:"subtopics"`
	WhatILearned   string           `json:"whatILearned" db:"what_i_learned" bson:"whatILearned"`
	Difficulty     Difficulty       `json:"difficulty" db:"difficulty" bson:"difficulty"`
	StudyTechnique StudyTechnique   `json:"studyTechnique,omitempty" db:"study_technique" bson:"studyTechnique,omitempty"`
	Location       string           `json:"location" db:"location" bson:"location"`
	Likes          []string         `json:"likes" db:"-" bson:"likes"`
	Comments       []SessionComment `json:"comments" db:"-" bson:"comments"`
	CreatedAt      time.Time        `json:"createdAt" db:"created_at" bson:"createdAt"`
}

package domain

import "time"

type Feature struct {
	FeatureID   string    `json:"id" dynamodbav:"feature_id"`
	UserID      string    `json:"user_id" dynamodbav:"user_id"`
	Title       string    `json:"title" dynamodbav:"title"`
	Description string    `json:"description,omitempty" dynamodbav:"description"`
	Votes       int       `json:"votes" dynamodbav:"votes"`
	CreatedAt   time.Time `json:"created" dynamodbav:"created_at"`
	UpdatedAt   time.Time `json:"updated" dynamodbav:"updated_at"`
}

type FeatureInput struct {
	Title       string `json:"title" validate:"required,min=1"`
	Description string `json:"description"`
}

package models

import (
	"time"
)

type Account struct {
	Email        string    `json:"email" dynamodbav:"email"`
	Name         string    `json:"name" dynamodbav:"name"`
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	CreatedAt    time.Time `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" dynamodbav:"updated_at"`
}

func (a *Account) GetPK() string {
	return "ACCOUNT#" + a.Email
}

func (a *Account) GetSK() string {
	return "METADATA"
}

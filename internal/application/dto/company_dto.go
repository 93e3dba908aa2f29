package dto

import "time"

// RegisterCompanyRequest alta de empresa con período de prueba y su usuario admin.
type RegisterCompanyRequest struct {
	CompanyName string `json:"company_name" validate:"required,min=1,max=200"`
	Document    string `json:"document" validate:"required,min=11,max=18"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	UserName    string `json:"user_name" validate:"omitempty,max=200"`
}

// CompanyResponse salida de una empresa (sin datos sensibles).
type CompanyResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Document        string     `json:"document"`
	Email           string     `json:"email"`
	TrialEndDate    *time.Time `json:"trial_end_date,omitempty"`
	UnlimitedAccess bool       `json:"unlimited_access"`
	CreatedAt       time.Time  `json:"created_at"`
}

// RegisterCompanyResponse empresa creada + token de su usuario admin.
type RegisterCompanyResponse struct {
	Company CompanyResponse `json:"company"`
	Token   string          `json:"token"`
	User    UserResponse    `json:"user"`
}

package dto

// UserListRequest filters the admin user listing.
type UserListRequest struct {
	Page     int    `query:"page" validate:"omitempty,gte=1"`
	PageSize int    `query:"page_size" validate:"omitempty,gte=1,lte=100"`
	Role     string `query:"rol" validate:"omitempty,oneof=estudiante docente admin"`
	Search   string `query:"buscar" validate:"omitempty,max=255"`
}

// UserUpdateRequest patches an account from the admin panel.
type UserUpdateRequest struct {
	Name   *string `json:"nombre" validate:"omitempty,min=2,max=255"`
	Role   *string `json:"rol" validate:"omitempty,oneof=estudiante docente admin"`
	Active *bool   `json:"activo"`
}

// UserListResponse pages accounts.
type UserListResponse struct {
	Users    []UserResponse `json:"usuarios"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

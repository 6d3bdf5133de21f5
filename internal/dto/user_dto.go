package dto

// UserUpdateRequest carries partial account updates. Role is applied only
// for admin callers; the self-service path drops it silently.
type UserUpdateRequest struct {
	Email *string `json:"email"`
	Bio   *string `json:"bio"`
	Role  *string `json:"role"`
}

type ListMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

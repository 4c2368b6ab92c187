package dto

// UpdateProfileRequest carries the new profile values. TargetLogin and Role
// are only honored for managers. An empty Password keeps the current one.
type UpdateProfileRequest struct {
	TargetLogin string
	Phone       string
	Password    string
	FavItems    string
	Role        string
}

type CreateUserRequest struct {
	Login    string
	Password string
	Phone    string
}

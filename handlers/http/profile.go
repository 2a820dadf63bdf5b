package httpHandler

import "financehub/entities"

type profileUpdateRequest struct {
	Username  *string `json:"username" binding:"omitempty,min=1,max=32"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,url"`
	Bio       *string `json:"bio" binding:"omitempty,max=280"`
}

func (r profileUpdateRequest) toEntity() entities.ProfileUpdate {
	return entities.ProfileUpdate{
		Username:  r.Username,
		AvatarURL: r.AvatarURL,
		Bio:       r.Bio,
	}
}

package mapper

import (
	"github.com/AlibekovAA/auth-service/internal/common/dto"
	userdomain "github.com/AlibekovAA/auth-service/internal/user/domain"
)

func UserToDTO(user userdomain.User) dto.User {
	return dto.User{
		ID:       string(user.ID),
		Email:    user.Email,
		Username: user.Username,
	}
}

func TokenToDTO(accessToken, tokenType string) dto.Token {
	return dto.Token{
		AccessToken: accessToken,
		TokenType:   tokenType,
	}
}

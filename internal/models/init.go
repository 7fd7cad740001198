package models

import (
	"github.com/bonosalud/bonos-api/internal/constants"
	"github.com/bonosalud/bonos-api/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaultActor 初始化默认管理员操作员
// 说明：只在操作员表为空时创建，便于首次部署后统一登录系统能下发可用令牌。
func InitDefaultActor(username, password string) error {
	var count int64
	DB.Model(&Actor{}).Count(&count)
	if count > 0 {
		return nil
	}

	if username == "" {
		username = "admin"
	}
	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	actor := Actor{
		Username:     username,
		PasswordHash: string(hash),
		Role:         constants.RoleAdmin,
		Active:       true,
	}

	if err := DB.Create(&actor).Error; err != nil {
		return err
	}

	if password == "admin123" {
		logger.Warnw("default_actor_created_with_default_password", "username", username)
		logger.Warnw("default_actor_password_change_required", "username", username)
	} else {
		logger.Warnw("default_actor_created", "username", username, "password_hidden", true)
	}

	return nil
}

package service

import "github.com/liveauction/auction-backend/internal/models"

// Права доступа, закреплённые за ролями платформы.
const (
	PermCreateItem    = "CREATE_ITEM"
	PermEditItem      = "EDIT_ITEM"
	PermReviewClaims  = "REVIEW_CLAIMS"
	PermReviewItems   = "REVIEW_ITEMS"
	PermClaimItem     = "CLAIM_ITEM"
	PermCreateAuction = "CREATE_AUCTION"
	PermEditAuction   = "EDIT_AUCTION"
	PermCancelAuction = "CANCEL_AUCTION"
)

// RolePermissions сопоставляет роль с набором её прав. Обычный пользователь
// только просматривает каталог, поэтому прав у него нет.
var RolePermissions = map[string][]string{
	models.RoleSeller: {
		PermCreateItem,
		PermEditItem,
		PermReviewClaims,
	},
	models.RoleAuctioneer: {
		PermClaimItem,
		PermCreateAuction,
		PermEditAuction,
		PermCancelAuction,
	},
	models.RoleAdmin: {
		PermCreateItem,
		PermEditItem,
		PermReviewClaims,
		PermReviewItems,
		PermClaimItem,
		PermCreateAuction,
		PermEditAuction,
		PermCancelAuction,
	},
}

// HasPermission проверяет, есть ли у роли указанное право.
func HasPermission(role, permission string) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

package models

// Роли пользователей платформы.
const (
	RoleUser       = "user"
	RoleSeller     = "seller"
	RoleAuctioneer = "auctioneer"
	RoleAdmin      = "admin"
)

// ItemStatus константы статусов лотов
const (
	ItemStatusDraft           = "draft"
	ItemStatusPendingApproval = "pending_approval"
	ItemStatusApproved        = "approved"
	ItemStatusRejected        = "rejected"
	ItemStatusCancelled       = "cancelled"
)

// ClaimStatus константы статусов заявок аукционистов
const (
	ClaimStatusPending  = "pending"
	ClaimStatusApproved = "approved"
	ClaimStatusRejected = "rejected"
)

// AuctionStatus константы статусов аукционов
const (
	AuctionStatusScheduled = "scheduled"
	AuctionStatusOngoing   = "ongoing"
	AuctionStatusCompleted = "completed"
	AuctionStatusCancelled = "cancelled"
)

// ValidRoles список валидных ролей
var ValidRoles = map[string]struct{}{
	RoleUser:       {},
	RoleSeller:     {},
	RoleAuctioneer: {},
	RoleAdmin:      {},
}

// ValidItemStatuses список валидных статусов лотов
var ValidItemStatuses = map[string]struct{}{
	ItemStatusDraft:           {},
	ItemStatusPendingApproval: {},
	ItemStatusApproved:        {},
	ItemStatusRejected:        {},
	ItemStatusCancelled:       {},
}

// ValidClaimStatuses список валидных статусов заявок
var ValidClaimStatuses = map[string]struct{}{
	ClaimStatusPending:  {},
	ClaimStatusApproved: {},
	ClaimStatusRejected: {},
}

// ValidAuctionStatuses список валидных статусов аукционов
var ValidAuctionStatuses = map[string]struct{}{
	AuctionStatusScheduled: {},
	AuctionStatusOngoing:   {},
	AuctionStatusCompleted: {},
	AuctionStatusCancelled: {},
}

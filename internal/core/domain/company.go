package domain

import "time"

// Company is a tenant. Every account, journal, order and bank record belongs to exactly one.
type Company struct {
	CompanyID   string `json:"companyID"`
	Name        string `json:"name"`
	TaxID       string `json:"taxID,omitempty"`
	Address     string `json:"address,omitempty"`
	IsActive    bool   `json:"isActive"`
	AuditFields        // Embed common audit fields
}

// CompanyRole defines the role a user holds within a company.
type CompanyRole string

const (
	RoleOwner      CompanyRole = "OWNER"
	RoleAccountant CompanyRole = "ACCOUNTANT"
	RoleClerk      CompanyRole = "CLERK"
	RoleViewer     CompanyRole = "VIEWER"
)

func (r CompanyRole) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Membership links a user to a company with a role.
type Membership struct {
	UserID    string      `json:"userID"`
	CompanyID string      `json:"companyID"`
	Role      CompanyRole `json:"role"`
	JoinedAt  time.Time   `json:"joinedAt"`
}

// Permission is the capability name checked before an operation.
type Permission string

const (
	PermCompanyRead    Permission = "company:read"
	PermCompanyManage  Permission = "company:manage"
	PermAccountCreate  Permission = "account:create"
	PermAccountUpdate  Permission = "account:update"
	PermAccountDelete  Permission = "account:delete"
	PermJournalCreate  Permission = "journal:create"
	PermJournalPost    Permission = "journal:post"
	PermPurchaseCreate Permission = "purchase:create"
	PermSalesCreate    Permission = "sales:create"
	PermPaymentCreate  Permission = "payment:create"
	PermReceiptCreate  Permission = "receipt:create"
	PermInventoryAdj   Permission = "inventory:adjust"
	PermBankManage     Permission = "bank:manage"
	PermBankReconcile  Permission = "bank:reconcile"
	PermMasterData     Permission = "masterdata:write"
)

var allPermissions = []Permission{
	PermCompanyRead, PermCompanyManage,
	PermAccountCreate, PermAccountUpdate, PermAccountDelete,
	PermJournalCreate, PermJournalPost,
	PermPurchaseCreate, PermSalesCreate, PermPaymentCreate, PermReceiptCreate,
	PermInventoryAdj, PermBankManage, PermBankReconcile, PermMasterData,
}

var rolePermissions = map[CompanyRole]map[Permission]bool{
	RoleOwner:      permSet(allPermissions...),
	RoleAccountant: permSetExcept(PermCompanyManage),
	RoleClerk: permSet(PermCompanyRead, PermPurchaseCreate, PermSalesCreate, PermPaymentCreate,
		PermReceiptCreate, PermInventoryAdj, PermMasterData),
	RoleViewer: permSet(PermCompanyRead),
}

func permSet(perms ...Permission) map[Permission]bool {
	m := make(map[Permission]bool, len(perms))
	for _, p := range perms {
		m[p] = true
	}
	return m
}

func permSetExcept(excluded ...Permission) map[Permission]bool {
	m := permSet(allPermissions...)
	for _, p := range excluded {
		delete(m, p)
	}
	return m
}

// Can reports whether the role grants the permission.
func (r CompanyRole) Can(p Permission) bool {
	return rolePermissions[r][p]
}

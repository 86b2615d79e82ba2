package service

import "pos-service/internal/models"

// Operation names a role-gated action. The permission table below is the
// single place operation allow-lists live; the HTTP layer checks it once per
// request and the engines stay role-agnostic.
type Operation string

const (
	OpPlaceOrder          Operation = "order.place"
	OpViewOrders          Operation = "order.view"
	OpAdjustInventory     Operation = "inventory.adjust"
	OpViewInventory       Operation = "inventory.view"
	OpCreateRequisition   Operation = "requisition.create"
	OpApproveRequisition  Operation = "requisition.approve"
	OpRejectRequisition   Operation = "requisition.reject"
	OpCompleteRequisition Operation = "requisition.complete"
	OpDeposit             Operation = "customer.deposit"
	OpManageCustomers     Operation = "customer.manage"
	OpManageProducts      Operation = "product.manage"
	OpManageStores        Operation = "store.manage"
	OpManageSuppliers     Operation = "supplier.manage"
	OpManageAccounts      Operation = "account.manage"
	OpPostTransaction     Operation = "transaction.post"
	OpManageUsers         Operation = "user.manage"
	OpViewNotifications   Operation = "notification.view"
)

var allowedRoles = map[Operation]map[string]bool{
	OpPlaceOrder:          roles(models.RoleAdmin, models.RoleManager, models.RoleCashier),
	OpViewOrders:          roles(models.RoleAdmin, models.RoleManager, models.RoleCashier, models.RoleFinance),
	OpAdjustInventory:     roles(models.RoleAdmin, models.RoleManager),
	OpViewInventory:       roles(models.RoleAdmin, models.RoleManager, models.RoleCashier),
	OpCreateRequisition:   roles(models.RoleAdmin, models.RoleManager, models.RoleCashier),
	OpApproveRequisition:  roles(models.RoleAdmin, models.RoleManager),
	OpRejectRequisition:   roles(models.RoleAdmin, models.RoleManager),
	OpCompleteRequisition: roles(models.RoleAdmin, models.RoleManager),
	OpDeposit:             roles(models.RoleAdmin, models.RoleManager, models.RoleCashier, models.RoleFinance),
	OpManageCustomers:     roles(models.RoleAdmin, models.RoleManager, models.RoleCashier),
	OpManageProducts:      roles(models.RoleAdmin, models.RoleManager),
	OpManageStores:        roles(models.RoleAdmin, models.RoleManager),
	OpManageSuppliers:     roles(models.RoleAdmin, models.RoleManager),
	OpManageAccounts:      roles(models.RoleAdmin, models.RoleFinance),
	OpPostTransaction:     roles(models.RoleAdmin, models.RoleFinance),
	OpManageUsers:         roles(models.RoleAdmin),
	OpViewNotifications:   roles(models.RoleAdmin, models.RoleManager, models.RoleCashier, models.RoleFinance, models.RoleUser),
}

func roles(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}

// Allowed reports whether a role may perform an operation. Unknown operations
// and unknown roles are both denied.
func Allowed(op Operation, role string) bool {
	return allowedRoles[op][role]
}

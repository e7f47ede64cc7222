package authn

// Permission names. Immutable capabilities referenced by roles.
const (
	PermViewOrders        = "VIEW_ORDERS"
	PermReadUsers         = "READ_USERS"
	PermManageOrders      = "MANAGE_ORDERS"
	PermReadProducts      = "READ_PRODUCTS"
	PermCreateProducts    = "CREATE_PRODUCTS"
	PermUpdateProducts    = "UPDATE_PRODUCTS"
	PermDeleteProducts    = "DELETE_PRODUCTS"
	PermReadProductStock  = "READ_PRODUCT_STOCK"
	PermCreateOrders      = "CREATE_ORDERS"
	PermReadOwnOrders     = "READ_OWN_ORDERS"
	PermReadAllOrders     = "READ_ALL_ORDERS"
	PermUpdateOrderStatus = "UPDATE_ORDER_STATUS"
	PermReadUserOrders    = "READ_USER_ORDERS"
)

// OperationPermissions maps each protected operation to the permission it
// requires. The router consults this table through Require; there is no other
// authorization call-site.
var OperationPermissions = map[string]string{
	"products.get":        PermReadProducts,
	"products.stock":      PermReadProductStock,
	"products.create":     PermCreateProducts,
	"products.update":     PermUpdateProducts,
	"products.delete":     PermDeleteProducts,
	"orders.create":       PermCreateOrders,
	"orders.list_own":     PermReadOwnOrders,
	"orders.list_all":     PermReadAllOrders,
	"orders.set_status":   PermUpdateOrderStatus,
	"orders.list_by_user": PermReadUserOrders,
	"admin.list_users":    PermReadUsers,
	"admin.assign_perm":   PermReadUsers,
}

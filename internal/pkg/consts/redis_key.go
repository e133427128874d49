package consts

const (
	TokenDenyKey = "auth:token:deny:"
)

const (
	KarmaReconcileLock = "lock:karma:reconcile"
)

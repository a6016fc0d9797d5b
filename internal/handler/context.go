package handler

type ContextKey string

var (
	RoleCtxKey     ContextKey = "role"
	SubCtxKey      ContextKey = "sub"
	UsernameCtxKey ContextKey = "username"
	MyInfoCtx      ContextKey = "myInfo"
	BoardCtx       ContextKey = "board"
	BoardKeyCtx    ContextKey = "boardKey"
	CellCtx        ContextKey = "cell"
)

package contextkeys

// contextKey keeps these keys from colliding with other packages.
type contextKey string

// DBContextKey holds the request's *gorm.DB.
const DBContextKey = contextKey("db")

// Keys set on gin.Context by the auth and upload middlewares.
const (
	UserIDKey     = "userID"
	BasicUserKey  = "basicUser"
	UploadFormKey = "uploadForm"
)

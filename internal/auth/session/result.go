package session

// Result is the structured outcome of signup and signin. The message is
// user-facing and safe to render directly; callers branch on Success only.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// User-facing outcome messages. These are part of the product surface and
// must not drift.
const (
	MsgUserExists         = "User already exists. Please sign in."
	MsgSignUpOK           = "Account created successfully. Please sign in."
	MsgEmailInUse         = "This email is already in use"
	MsgSignUpFailed       = "Failed to create account. Please try again."
	MsgUserMissing        = "User does not exist. Create an account."
	MsgInvalidCredentials = "Invalid credentials. Please try again."
	MsgSessionExpired     = "Session expired. Please sign in again."
	MsgSignInFailed       = "Failed to log into account. Please try again."
)

func failure(msg string) Result { return Result{Success: false, Message: msg} }

func success(msg string) Result { return Result{Success: true, Message: msg} }

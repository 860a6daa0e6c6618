package response

// ErrorBody 统一错误信封；error 按 HTTP 语义取名，message 给人看。
// 认证失败一律同形同款，不暴露是用户名错还是密码错
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ValidationBody 字段校验失败：field -> message
type ValidationBody struct {
	Errors map[string]string `json:"errors"`
}

func Err(status int, msg string) ErrorBody {
	name := StatusMsgMap[status]
	if name == "" {
		name = "Error"
	}
	if msg == "" {
		msg = name
	}
	return ErrorBody{Error: name, Message: msg}
}

func Validation(fields map[string]string) ValidationBody {
	if fields == nil {
		fields = map[string]string{}
	}
	return ValidationBody{Errors: fields}
}

type MessageBody struct {
	Message string `json:"message"`
}

func Message(msg string) MessageBody { return MessageBody{Message: msg} }

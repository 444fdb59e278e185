package event

const CodeIssuedDestination string = "verification.code_issued"
const CodeIssuedConsumerNotification string = "verification.code_issued.notification"

// CodeIssuedMessage asks for a freshly issued code to be delivered. Code is
// the plaintext value; the message must not be persisted by consumers.
type CodeIssuedMessage struct {
	Kind       string `json:"kind"`
	SubjectKey int64  `json:"subject_key,string"`
	Channel    string `json:"channel"`
	Address    string `json:"address"`
	Code       string `json:"code"`
	ExpiresAt  int64  `json:"expires_at"`
}

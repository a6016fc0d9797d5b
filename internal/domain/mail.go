package domain

const (
	MailTypeStatusChange   = "status_change"
	MailTypeLocationChange = "location_change"
	MailTypeRateChange     = "rate_change"
)

type MailMessage struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type StatusChangeMailData struct {
	StaffName string `json:"staffName"`
	Date      string `json:"date"`
	Status    Status `json:"status"`
	Actor     string `json:"actor"`
}

type LocationChangeMailData struct {
	StaffName string `json:"staffName"`
	Date      string `json:"date"`
	Location  string `json:"location"`
	Actor     string `json:"actor"`
}

type RateChangeMailData struct {
	StaffName string `json:"staffName"`
	Date      string `json:"date"`
	Rate      string `json:"rate"` // 为空表示取消覆盖单价
	Actor     string `json:"actor"`
}

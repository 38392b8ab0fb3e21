package whatsapp

// SendRequest asks the gateway to deliver a text message. CustomerID, when
// set, ties the attempt to a customer's chat history.
type SendRequest struct {
	Phone      string `json:"phone"`
	Message    string `json:"message"`
	CustomerID *int64 `json:"customer_id"`
}

// Delivery is what the gateway answered.
type Delivery struct {
	StatusCode int         `json:"status_code"`
	Response   interface{} `json:"response,omitempty"`
}

func (d *Delivery) Accepted() bool {
	return d != nil && d.StatusCode >= 200 && d.StatusCode < 300
}

type SendResult struct {
	Receiver         string      `json:"receiver"`
	Delivered        bool        `json:"delivered"`
	WhatsAppResponse interface{} `json:"whatsapp_response"`
	ChatID           *int64      `json:"chat_id,omitempty"`
	HistoryRecorded  bool        `json:"history_recorded"`
}

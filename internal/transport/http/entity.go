package httpt

type (
	SubmitVerificationRequest struct {
		VideoURL string `json:"videoUrl" binding:"required"`
	}

	UpdateOrderStatusRequest struct {
		Status         string `json:"status" binding:"required"`
		TrackingNumber string `json:"trackingNumber"`
		Notes          string `json:"notes"`
	}

	AckResponse struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}

	ErrorResponse struct {
		Error string `json:"error"`
	}
)

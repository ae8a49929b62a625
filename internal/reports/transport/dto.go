package transport

type SubmitReportRequest struct {
	PropertyID int64 `json:"propertyId" validate:"required,gt=0"`
}

type SubmitReportResponse struct {
	Message string `json:"message"`
	Outcome string `json:"outcome"`
}

package dto

type HistoryResponse struct {
	Page         int                      `json:"page"`
	Limit        int                      `json:"limit"`
	TotalRecords int                      `json:"totalRecords"`
	TotalPages   int                      `json:"totalPages"`
	Data         []LocationRecordResponse `json:"data"`
}

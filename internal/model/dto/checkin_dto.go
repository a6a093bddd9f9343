package dto

// CheckinRequest 签到请求，携带现场定位用于地理围栏校验。
// 经纬度用指针：0.0 是合法坐标，必须和字段缺失区分开。
type CheckinRequest struct {
	JobID     int64    `json:"job_id" binding:"required"`
	Latitude  *float64 `json:"latitude" binding:"required,min=-90,max=90"`
	Longitude *float64 `json:"longitude" binding:"required,min=-180,max=180"`
}

// CheckinResponse 签到成功后返回排队号与当前位置
type CheckinResponse struct {
	ApplicationID int64  `json:"application_id"`
	QueueNumber   string `json:"queue_number"`
	Position      int    `json:"position"`
}

// ApplyRequest 报名请求
type ApplyRequest struct {
	JobID int64  `json:"job_id" binding:"required"`
	CVURL string `json:"cv_url" binding:"omitempty,url,max=500"`
}

// ApplyResponse 报名响应
type ApplyResponse struct {
	ApplicationID int64  `json:"application_id"`
	Status        string `json:"status"`
}

package shift

type BreakResponse struct {
	BreakNumber int    `json:"break_number"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

type ResolvedScheduleResponse struct {
	ShiftCode            string          `json:"shift_code"`
	Date                 string          `json:"date"`
	StartTime            string          `json:"start_time"`
	EndTime              string          `json:"end_time"`
	Breaks               []BreakResponse `json:"breaks"`
	BreakMinutes         int             `json:"break_minutes"`
	AvailableWorkMinutes int             `json:"available_work_minutes"`
}

func mapToResolvedResponse(rs ResolvedSchedule) ResolvedScheduleResponse {
	breaks := make([]BreakResponse, len(rs.Breaks))
	for i, b := range rs.Breaks {
		breaks[i] = BreakResponse{
			BreakNumber: b.BreakNumber,
			StartTime:   b.StartTime.Format("15:04"),
			EndTime:     b.EndTime.Format("15:04"),
		}
	}
	return ResolvedScheduleResponse{
		ShiftCode:            rs.Shift.ShiftCode,
		Date:                 rs.Date.Format("2006-01-02"),
		StartTime:            rs.Shift.StartTime.Format("15:04"),
		EndTime:              rs.Shift.EndTime.Format("15:04"),
		Breaks:               breaks,
		BreakMinutes:         rs.BreakMinutes(),
		AvailableWorkMinutes: rs.AvailableWorkMinutes(),
	}
}

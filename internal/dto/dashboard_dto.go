package dto

// StudentDashboardResponse aggregates a student's gamification state with
// their pending work. The payload is cached in redis per student.
type StudentDashboardResponse struct {
	Points       PointTotalResponse   `json:"puntos"`
	Levels       []UserLevelResponse  `json:"niveles"`
	Badges       []UserBadgeResponse  `json:"insignias"`
	Position     *int                 `json:"posicion,omitempty"`
	Pending      []AssignmentResponse `json:"asignaciones_pendientes"`
	RecentPlays  []PlayResponse       `json:"jugadas_recientes"`
	Summary      DashboardSummary     `json:"resumen"`
}

// DashboardSummary carries the headline counters.
type DashboardSummary struct {
	TotalAssignments int     `json:"total_asignaciones"`
	Submitted        int     `json:"entregadas"`
	Graded           int     `json:"calificadas"`
	Pending          int     `json:"pendientes"`
	AverageGrade     float64 `json:"promedio_calificacion"`
}

package models

// DashboardStats carries the head counts shown on the admin dashboard.
type DashboardStats struct {
	Schools  int `db:"schools" json:"schools"`
	Teachers int `db:"teachers" json:"teachers"`
	Classes  int `db:"classes" json:"classes"`
	Subjects int `db:"subjects" json:"subjects"`
	Lessons  int `db:"lessons" json:"lessons"`
}

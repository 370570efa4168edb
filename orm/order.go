package orm

// Order is one term of an ORDER BY clause.
type Order struct {
	col  Column
	desc bool
}

// Asc("model.CreatedAt")
func Asc(col string) Order {
	return C(col).Asc()
}

// Desc("model.Id")
func Desc(col string) Order {
	return C(col).Desc()
}

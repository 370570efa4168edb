package orm

// Aggregate is a function over one column: AVG("Age"), COUNT("model.Id").
type Aggregate struct {
	fn    string
	arg   Column
	alias string
}

func (a Aggregate) selectable() {}

func (a Aggregate) As(alias string) Aggregate {
	return Aggregate{
		fn:    a.fn,
		arg:   a.arg,
		alias: alias,
	}
}

func Avg(col string) Aggregate {
	return Aggregate{
		fn:  "AVG",
		arg: C(col),
	}
}

func Sum(col string) Aggregate {
	return Aggregate{
		fn:  "SUM",
		arg: C(col),
	}
}

func Count(col string) Aggregate {
	return Aggregate{
		fn:  "COUNT",
		arg: C(col),
	}
}

func Max(col string) Aggregate {
	return Aggregate{
		fn:  "MAX",
		arg: C(col),
	}
}

func Min(col string) Aggregate {
	return Aggregate{
		fn:  "MIN",
		arg: C(col),
	}
}

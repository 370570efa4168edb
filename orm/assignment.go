package orm

// Assignable is what an upsert may set: a Column takes the value being
// inserted, an Assignment a fixed value.
type Assignable interface {
	assigns()
}

type Assignment struct {
	col string
	val any
}

func Assign(col string, val any) Assignment {
	return Assignment{
		col: col,
		val: val,
	}
}

func (Assignment) assigns() {}

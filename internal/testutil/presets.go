package testutil

// Revenue is a plain bar chart over three months.
func (b *Builder) Revenue() *Builder {
	return b.
		Title("Revenue").
		Categories("Jan", "Feb", "Mar").
		WithSeries("sales", Values(10, 20, 30))
}

// Budget is a dynamic waterfall with one expense per category.
func (b *Builder) Budget() *Builder {
	return b.
		Title("Budget").
		Categories("Rent", "Staff", "Tools", "Travel").
		Dynamic().
		WithSeries("spend", Waterfall(), Values(1200, 800, 150, 90))
}

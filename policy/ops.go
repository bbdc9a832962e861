package policy

// Reducers. Each Op is a pure, associative, commutative binary function
// folding src into dst element-wise; spec §4.1 requires at least
// addition, multiplication, min and max.

type sumOp struct{}
type productOp struct{}
type minOp struct{}
type maxOp struct{}

// Sum is the addition reducer.
var Sum Op = sumOp{}

// Product is the multiplication reducer.
var Product Op = productOp{}

// Min is the minimum reducer.
var Min Op = minOp{}

// Max is the maximum reducer.
var Max Op = maxOp{}

func (sumOp) Name() string { return "sum" }
func (sumOp) Apply(dst, src Buffer) {
	eachElem(dst, src, func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
}

func (productOp) Name() string { return "product" }
func (productOp) Apply(dst, src Buffer) {
	eachElem(dst, src, func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
}

func (minOp) Name() string { return "min" }
func (minOp) Apply(dst, src Buffer) {
	eachElem(dst, src, func(a, b int64) int64 {
		if b < a {
			return b
		}
		return a
	}, func(a, b float64) float64 {
		if b < a {
			return b
		}
		return a
	})
}

func (maxOp) Name() string { return "max" }
func (maxOp) Apply(dst, src Buffer) {
	eachElem(dst, src, func(a, b int64) int64 {
		if b > a {
			return b
		}
		return a
	}, func(a, b float64) float64 {
		if b > a {
			return b
		}
		return a
	})
}

func eachElem(dst, src Buffer, intFn func(a, b int64) int64, floatFn func(a, b float64) float64) {
	d, sOk := dst.(*TypedBuffer)
	s, dOk := src.(*TypedBuffer)
	if !sOk || !dOk || d.Kind != s.Kind || d.Count != s.Count {
		return
	}
	switch d.Kind {
	case Int32:
		for i := 0; i < d.Count; i++ {
			d.SetInt32At(i, int32(intFn(int64(d.Int32At(i)), int64(s.Int32At(i)))))
		}
	case Int64:
		for i := 0; i < d.Count; i++ {
			d.SetInt64At(i, intFn(d.Int64At(i), s.Int64At(i)))
		}
	case Float64:
		for i := 0; i < d.Count; i++ {
			d.SetFloat64At(i, floatFn(d.Float64At(i), s.Float64At(i)))
		}
	}
}

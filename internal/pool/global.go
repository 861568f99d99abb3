package pool

// Process-wide pools for the element types the engine's column layouts
// actually allocate: int32 and float64 dense value buffers, and byte
// buffers for bit-packed bool storage and UTF-8 byte payloads. Varchar
// offset arrays and categorical code arrays are not drawn from here.
var (
	I32   = New[int32](16)
	F64   = New[float64](16)
	Bytes = New[byte](64)
)

// Init resizes the default minimum capacities of the global pools. It
// is optional: the pools work with their built-in defaults if never
// called. Not safe to call concurrently with in-flight acquire/release.
func Init(minCap int) {
	I32 = New[int32](minCap)
	F64 = New[float64](minCap)
	Bytes = New[byte](minCap * 4)
}

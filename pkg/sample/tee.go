package sample

// Tee copies every value of in to n output channels, which are closed when
// in closes. A slow consumer stalls the others once its buffer is full.
func Tee[T any](in <-chan T, n, bufSize int) []<-chan T {
	if bufSize <= 0 {
		bufSize = DefaultBufferSize
	}

	outs := make([]chan T, n)
	ro := make([]<-chan T, n)
	for i := range outs {
		outs[i] = make(chan T, bufSize)
		ro[i] = outs[i]
	}

	go func() {
		defer func() {
			for _, out := range outs {
				close(out)
			}
		}()
		for v := range in {
			for _, out := range outs {
				out <- v
			}
		}
	}()

	return ro
}

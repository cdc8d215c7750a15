package models

// Carousel cursor arithmetic over a list of size n. n is passed on every call because
// the previous list grows while a session is open.

// CarouselAdvance moves to the next slide, wrapping at the end.
func CarouselAdvance(index, n int) int {
	if n <= 1 {
		return 0
	}
	return (CarouselClamp(index, n) + 1) % n
}

// CarouselRetreat moves to the previous slide, wrapping at the start.
func CarouselRetreat(index, n int) int {
	if n <= 1 {
		return 0
	}
	return (CarouselClamp(index, n) - 1 + n) % n
}

// CarouselValidIndex reports whether index addresses a slide.
func CarouselValidIndex(index, n int) bool {
	return index >= 0 && index < n
}

// CarouselClamp brings a stale cursor back into [0, n-1].
func CarouselClamp(index, n int) int {
	if n <= 0 || index < 0 {
		return 0
	}
	if index >= n {
		return n - 1
	}
	return index
}

// CarouselNavigable reports whether navigation controls do anything.
func CarouselNavigable(n int) bool {
	return n > 1
}

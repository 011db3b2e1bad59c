package kernel

// Current returns the running kernel's version code.
func Current() (int, error) {
	release, err := Release()
	if err != nil {
		return 0, err
	}
	return ParseRelease(release), nil
}

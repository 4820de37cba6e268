package store

// LoadResume returns the resume text as stored. A missing file yields ErrNotFound.
func LoadResume(path string) (string, error) {
	data, err := readFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

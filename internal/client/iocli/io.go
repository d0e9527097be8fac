package iocli

//go:generate moq -out io_mock.go . IO

// IO ввод/вывод CLI. В тестах подменяется IOMock.
type IO interface {
	Println(a ...any)
	Printf(format string, a ...any)
	// ReadInput читает строку без завершающего перевода строки; io.EOF в конце ввода
	ReadInput(prompt string) (string, error)
	// ReadPassword читает строку без эха, если ввод идет с терминала
	ReadPassword(prompt string) (string, error)
	Write(p []byte) (n int, err error)
	// Width ширина терминала в символах
	Width() int
	IsTerminal() bool
}

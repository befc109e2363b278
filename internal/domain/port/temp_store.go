package port

// TempStore временные файлы для изображений пользователя
type TempStore interface {
	// Spool сохраняет данные во временный файл с расширением ext.
	// cleanup удаляет файл и должен быть вызван на любом пути выхода.
	Spool(data []byte, ext string) (path string, cleanup func() error, err error)
}

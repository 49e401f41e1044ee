// Package fuzztests houses Go fuzz harnesses for length measurement and edit
// mapping. They guard against panics and check that incremental results agree
// with measuring the edited text from scratch.
//
// Назначение: гонять произвольные байты через OfString, FileSet и Document.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/length, internal/source, internal/edit, internal/testkit.

package fuzztests

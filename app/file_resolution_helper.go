package app

import "github.com/ludo-technologies/bcflow/domain"

// ResolveFilePaths resolves the IR documents to analyze. When every path is
// already an existing document it is returned unchanged; otherwise the paths
// are expanded with the reader's include and exclude filters.
func ResolveFilePaths(
	fileReader domain.FileReader,
	paths []string,
	recursive bool,
	includePatterns []string,
	excludePatterns []string,
) ([]string, error) {
	allFiles := len(paths) > 0
	for _, path := range paths {
		if !fileReader.IsValidDocument(path) {
			allFiles = false
			break
		}
		exists, err := fileReader.FileExists(path)
		if err != nil || !exists {
			allFiles = false
			break
		}
	}

	if allFiles {
		return paths, nil
	}

	return fileReader.CollectDocuments(paths, recursive, includePatterns, excludePatterns)
}

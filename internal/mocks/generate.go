package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/player --output domain/player --outpkg playermock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name LanguageModel --dir ../domain/nlquery --output domain/nlquery --outpkg nlquerymock --filename language_model_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name SessionManager --dir ../domain/nlquery --output domain/nlquery --outpkg nlquerymock --filename session_manager_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Gateway --dir ../domain/nlquery --output domain/nlquery --outpkg nlquerymock --filename gateway_mock.go

package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Store --dir ../domain/kvstore --output domain/kvstore --outpkg kvstoremock --filename store_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name InjuryFeed --dir ../usecase --output usecase --outpkg usecasemock --filename injury_feed_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name BoxScoreFeed --dir ../usecase --output usecase --outpkg usecasemock --filename box_score_feed_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name OddsFeed --dir ../usecase --output usecase --outpkg usecasemock --filename odds_feed_mock.go
